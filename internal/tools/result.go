package tools

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/shoping-voice/internal/cart/app"
	cartdomain "github.com/dwikikusuma/shoping-voice/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/shoping-voice/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/shoping-voice/internal/checkout/app"
	fraudapp "github.com/dwikikusuma/shoping-voice/internal/fraud/app"
	leadapp "github.com/dwikikusuma/shoping-voice/internal/lead/app"
	orderapp "github.com/dwikikusuma/shoping-voice/internal/order/app"
	tutorapp "github.com/dwikikusuma/shoping-voice/internal/tutor/app"
	tutordomain "github.com/dwikikusuma/shoping-voice/internal/tutor/domain"
	wellnessapp "github.com/dwikikusuma/shoping-voice/internal/wellness/app"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const internalMessage = "Something went wrong on our side. Please try again."

var (
	errUnknownTool = errors.New("unknown tool")
	errBadArgs     = errors.New("invalid arguments")
)

// Result is what a tool call returns to the model. Every field is plain data.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`

	code codes.Code
}

func ok(msg string, data any) Result {
	return Result{Success: true, Message: msg, Data: data}
}

func fail(code codes.Code, msg string) Result {
	return Result{Message: msg, Code: codeName(code), code: code}
}

// Err returns the failure as a gRPC status error, or nil on success.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	code := r.code
	if code == codes.OK {
		code = codeFromName(r.Code)
	}
	return status.Error(code, r.Message)
}

func mapErr(err error) codes.Code {
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return st.Code()
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled

	case errors.Is(err, errBadArgs),
		errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, cartapp.ErrInvalidInput),
		errors.Is(err, cartdomain.ErrInvalidQuantity),
		errors.Is(err, orderapp.ErrInvalidInput),
		errors.Is(err, wellnessapp.ErrInvalidInput),
		errors.Is(err, tutordomain.ErrInvalidMode),
		errors.Is(err, fraudapp.ErrInvalidInput),
		errors.Is(err, fraudapp.ErrInvalidStatus):
		return codes.InvalidArgument

	case errors.Is(err, errUnknownTool),
		errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, cartapp.ErrProductNotFound),
		errors.Is(err, cartdomain.ErrLineNotFound),
		errors.Is(err, checkoutapp.ErrProductNotFound),
		errors.Is(err, tutorapp.ErrConceptNotFound),
		errors.Is(err, fraudapp.ErrNotFound):
		return codes.NotFound

	case errors.Is(err, checkoutapp.ErrPersistence),
		errors.Is(err, orderapp.ErrPersistence),
		errors.Is(err, leadapp.ErrPersistence),
		errors.Is(err, wellnessapp.ErrPersistence):
		return codes.Unavailable

	case errors.Is(err, checkoutapp.ErrEmptyCart),
		errors.Is(err, checkoutapp.ErrMixedCurrency),
		errors.Is(err, tutordomain.ErrNoConcept),
		errors.Is(err, fraudapp.ErrNotPending):
		return codes.FailedPrecondition
	}
	return codes.Internal
}

var codeNames = map[codes.Code]string{
	codes.OK:                 "OK",
	codes.Canceled:           "CANCELLED",
	codes.Unknown:            "UNKNOWN",
	codes.InvalidArgument:    "INVALID_ARGUMENT",
	codes.DeadlineExceeded:   "DEADLINE_EXCEEDED",
	codes.NotFound:           "NOT_FOUND",
	codes.AlreadyExists:      "ALREADY_EXISTS",
	codes.PermissionDenied:   "PERMISSION_DENIED",
	codes.ResourceExhausted:  "RESOURCE_EXHAUSTED",
	codes.FailedPrecondition: "FAILED_PRECONDITION",
	codes.Aborted:            "ABORTED",
	codes.OutOfRange:         "OUT_OF_RANGE",
	codes.Unimplemented:      "UNIMPLEMENTED",
	codes.Internal:           "INTERNAL",
	codes.Unavailable:        "UNAVAILABLE",
	codes.DataLoss:           "DATA_LOSS",
	codes.Unauthenticated:    "UNAUTHENTICATED",
}

func codeName(c codes.Code) string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "UNKNOWN"
}

func codeFromName(name string) codes.Code {
	for c, n := range codeNames {
		if n == name {
			return c
		}
	}
	return codes.Unknown
}
