package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"taskdash/internal/backend"
	"taskdash/internal/middleware"
	"taskdash/internal/model"
	"taskdash/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators добавляет в gin проверки, которых нет в validator
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// В ошибках поля называются так же, как в JSON запроса
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("taskdate", func(fl validator.FieldLevel) bool {
			_, ok := model.ParseDate(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			_, ok := model.ParseRole(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("ustmail", func(fl validator.FieldLevel) bool {
			return strings.HasSuffix(strings.ToLower(fl.Field().String()), "@ust.com")
		})
	})
}

// currentViewer достает зрителя, установленного middleware
func currentViewer(c *gin.Context) (*session.Viewer, bool) {
	v, ok := middleware.ViewerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}
	return v, true
}

// bindError отвечает 400, раскладывая ошибки валидации по полям
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "numeric":
		return "Must be a number."
	case "max":
		return "Must be at most " + fe.Param() + " characters."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "taskdate":
		return "Must be a valid date."
	case "role":
		return "Unknown role."
	case "email":
		return "Must be a valid email."
	case "ustmail":
		return "Email must end with @ust.com"
	default:
		return "Invalid value."
	}
}

// backendError переводит ошибку сервера задач в HTTP-ответ
func backendError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if code := backend.StatusCode(err); code >= 400 && code < 500 {
		status = code
	}
	c.JSON(status, gin.H{"error": backend.Message(err)})
}
