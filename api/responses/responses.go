package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
	"github.com/parcelpoint/courier-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: data})
}

// WriteError maps a typed error onto its HTTP status and public shape.
// Untyped errors are logged and surfaced as INTERNAL_ERROR.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		dump := pkgerrors.Dump(err)
		fields := map[string]any{
			"error_code":  string(typed.Code()),
			"http_status": meta.HTTPStatus,
			"error_chain": dump.Chain,
		}
		if dump.PGCode != "" {
			fields["pg_code"] = dump.PGCode
			fields["pg_constraint"] = dump.PGConstraint
			fields["pg_detail"] = dump.PGDetail
		}
		lctx := logg.WithFields(ctx, fields)
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(lctx, "request.failed", err)
		} else {
			logg.Warn(lctx, "request.rejected")
		}
	}

	body := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: typed.Message(),
		},
	}
	if body.Error.Message == "" {
		body.Error.Message = meta.PublicMessage
	}
	if meta.DetailsAllowed {
		body.Error.Details = typed.Details()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(meta.HTTPStatus)
	_ = json.NewEncoder(w).Encode(body)
}
