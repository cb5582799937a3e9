package errors

import "errors"

// Dumped flattens an error chain for structured logging.
type Dumped struct {
	Code       string
	TopMessage string
	Chain      []string
}

// Dump walks the error chain and collects each layer's message.
func Dump(err error) Dumped {
	out := Dumped{}
	if err == nil {
		return out
	}

	out.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		out.Code = string(typed.Code())
	}

	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		out.Chain = append(out.Chain, cur.Error())
	}
	return out
}
