package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mockupstudio/server/internal/domain/account"
	"github.com/mockupstudio/server/internal/domain/billing"
	"github.com/mockupstudio/server/internal/domain/generation"
	"github.com/mockupstudio/server/internal/domain/style"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/mockupstudio/server/internal/utils/middleware"
	"go.uber.org/zap"
)

// Error maps domain errors to HTTP responses.
func (r *Responder) Error(c *gin.Context, err error) {
	status, message := r.classify(err)

	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", fields...)
	} else {
		r.logger.Debug("request rejected", fields...)
	}

	fail(c, status, message)
}

func (r *Responder) classify(err error) (int, string) {
	var (
		accountInvalid *account.ValidationError
		genInvalid     *generation.ValidationError
		styleInvalid   *style.ValidationError
		gatewayErr     *generation.GatewayError
		paymentErr     *billing.ProviderError
	)

	switch {
	case errors.Is(err, account.ErrUnauthorized),
		errors.Is(err, generation.ErrUnauthorized),
		errors.Is(err, billing.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, account.ErrForbidden):
		return http.StatusForbidden, "Forbidden"

	case errors.As(err, &accountInvalid):
		return http.StatusBadRequest, accountInvalid.Message
	case errors.As(err, &genInvalid):
		return http.StatusBadRequest, genInvalid.Message
	case errors.As(err, &styleInvalid):
		return http.StatusBadRequest, styleInvalid.Message
	case errors.Is(err, account.ErrEmailInUse):
		return http.StatusBadRequest, account.ErrEmailInUse.Error()
	case errors.Is(err, account.ErrAccountExists):
		return http.StatusBadRequest, account.ErrAccountExists.Error()

	case errors.Is(err, account.ErrAccountNotFound):
		return http.StatusNotFound, account.ErrAccountNotFound.Error()
	case errors.Is(err, style.ErrStyleNotFound), errors.Is(err, generation.ErrStyleNotFound):
		return http.StatusNotFound, "Style not found"
	case errors.Is(err, style.ErrEnhanceStyleNotFound):
		return http.StatusNotFound, msgEnhanceStyleNotFound

	case errors.Is(err, generation.ErrInsufficientCredits):
		return http.StatusPaymentRequired, "Insufficient credits"
	case errors.As(err, &gatewayErr):
		return http.StatusBadGateway, gatewayErr.Message
	case errors.Is(err, outbound.ErrProviderNotConfigured):
		return http.StatusInternalServerError, "Image provider is not configured"

	case errors.Is(err, billing.ErrInvalidPlan),
		errors.Is(err, billing.ErrMissingReference),
		errors.Is(err, billing.ErrPaymentNotPaid),
		errors.Is(err, billing.ErrInvalidAmount),
		errors.Is(err, billing.ErrAmountMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, billing.ErrForeignPayment):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, billing.ErrProviderNotConfigured):
		return http.StatusInternalServerError, "Payment provider is not configured"
	case errors.As(err, &paymentErr):
		return http.StatusBadGateway, paymentErr.Message
	}

	if r.production {
		return http.StatusInternalServerError, "Internal server error"
	}
	return http.StatusInternalServerError, err.Error()
}
