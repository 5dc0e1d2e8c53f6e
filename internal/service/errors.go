package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/orderwidget/internal/form"
	"github.com/mmynk/orderwidget/internal/models"
	"github.com/mmynk/orderwidget/internal/selection"
	"github.com/mmynk/orderwidget/internal/zones"
)

// errBadRequest marks a malformed request body.
var errBadRequest = errors.New("bad request")

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, errBadRequest):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, selection.ErrUnknownItem),
		errors.Is(err, selection.ErrUnknownSection),
		errors.Is(err, selection.ErrUnknownPortion),
		errors.Is(err, selection.ErrUnknownGroup),
		errors.Is(err, zones.ErrUnknownZone):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, zones.ErrUnknownArea):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, form.ErrIncomplete):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// intField reads a required integral number field.
func intField(msg *structpb.Struct, name string) (int, error) {
	v, ok := msg.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", errBadRequest, name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != float64(int(n.NumberValue)) {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return int(n.NumberValue), nil
}

// stringField reads an optional string field.
func stringField(msg *structpb.Struct, name string) string {
	return msg.GetFields()[name].GetStringValue()
}

// contactField reads the optional "contact" object.
func contactField(msg *structpb.Struct) models.Contact {
	c := msg.GetFields()["contact"].GetStructValue()
	return models.Contact{
		Name:  stringField(c, "name"),
		Phone: stringField(c, "phone"),
		Extra: stringField(c, "extra"),
	}
}
