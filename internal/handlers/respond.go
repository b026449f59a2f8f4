package handlers

import (
	"StateDeck/internal/apperr"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Коды ошибок в теле ответа
const (
	codeValidation   = "validation_failed"
	codeNotFound     = "not_found"
	codeTooLarge     = "payload_too_large"
	codeUnsupported  = "unsupported_media_type"
	codeInternal     = "internal_error"
	codeInvalidShare = "invalid_share_link"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в details ключи совпадают с именами полей JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

// writeAppError переводит ошибку сервиса в HTTP-ответ.
func writeAppError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		ue *apperr.UploadError
	)
	switch {
	case errors.As(err, &ve):
		var details any
		if len(ve.Fields) > 0 {
			details = ve.Fields
		}
		writeError(w, http.StatusBadRequest, codeValidation, ve.Message, details)
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, codeNotFound, "Not found.", map[string]string{"entity": nf.Entity, "id": nf.ID})
	case errors.As(err, &ue):
		if ue.TooLarge {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, ue.Message, nil)
			return
		}
		writeError(w, http.StatusUnsupportedMediaType, codeUnsupported, ue.Message, nil)
	default:
		logger.Errorw(op+": internal error", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "Internal server error.", nil)
	}
}

type normalizer interface {
	normalize()
}

// decodeJSON читает тело, нормализует его и проверяет тегами validate.
func decodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("Request body is required.")
		}
		return apperr.Invalid("Invalid JSON body.")
	}
	if n, ok := target.(normalizer); ok {
		n.normalize()
	}
	return validateStruct(target)
}

func validateStruct(target any) error {
	err := validate.Struct(target)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Invalid(err.Error())
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return &apperr.ValidationError{Message: "Invalid request.", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fieldLabel(fe.Field()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fieldLabel(fe.Field()), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must not be empty.", fieldLabel(fe.Field()))
	}
	return fmt.Sprintf("%s is invalid.", fieldLabel(fe.Field()))
}

func fieldLabel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
