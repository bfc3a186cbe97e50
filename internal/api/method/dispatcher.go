package method

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"scoring-api/internal/auth"
	"scoring-api/internal/metrics"
	"scoring-api/internal/model"
	"scoring-api/internal/schema"
	svc "scoring-api/internal/service"
)

// AdminScore - скоринг, который всегда получает администратор
const AdminScore = 42

// ErrBodyNotObject - тело запроса не JSON объект
var ErrBodyNotObject = errors.New("request body must be a JSON object")

type handlerFunc func(ctx context.Context, req *model.MethodRequest, args map[string]any, rc *Context) (Response, error)

// Dispatcher проводит конверт через проверки и вызывает обработчик метода
type Dispatcher struct {
	auth     *auth.Authenticator
	scoring  svc.ScoringService
	metrics  *metrics.Metrics
	log      *zap.Logger
	handlers map[Kind]handlerFunc
}

// NewDispatcher создает диспетчер. metrics может быть nil.
func NewDispatcher(a *auth.Authenticator, scoring svc.ScoringService, m *metrics.Metrics, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		auth:    a,
		scoring: scoring,
		metrics: m,
		log:     logger.With(zap.String("component", "dispatcher")),
	}
	d.handlers = map[Kind]handlerFunc{
		KindOnlineScore:      d.onlineScore,
		KindClientsInterests: d.clientsInterests,
	}
	return d
}

// Handle обрабатывает разобранное тело запроса.
// Ожидаемые исходы (ошибки валидации, авторизации) возвращаются в Response,
// ненулевая ошибка означает непредвиденный сбой.
func (d *Dispatcher) Handle(ctx context.Context, body any, rc *Context) (resp Response, err error) {
	kind := Kind(0)
	defer func() {
		code := resp.Code
		if err != nil {
			code = StatusInternalError
		}
		d.metrics.RecordDispatch(kind.String(), code)
	}()

	src, ok := body.(map[string]any)
	if !ok {
		return invalid(ErrBodyNotObject.Error()), nil
	}

	req, err := model.NewMethodRequest(src)
	if err != nil {
		return validationFailure(err)
	}
	if err := req.Validate(); err != nil {
		return validationFailure(err)
	}

	if !d.auth.Check(req) {
		d.log.Info("authentication failed",
			zap.String("request_id", rc.RequestID),
			zap.String("login", req.Login()),
			zap.String("account", req.Account()))
		return Response{Code: StatusForbidden}, nil
	}

	kind, ok = ParseKind(req.Method())
	if !ok {
		return Response{Code: StatusInvalidRequest}, nil
	}

	args, err := req.Arguments()
	if err != nil {
		return invalid(err.Error()), nil
	}

	return d.handlers[kind](ctx, req, args, rc)
}

func (d *Dispatcher) onlineScore(ctx context.Context, req *model.MethodRequest, args map[string]any, rc *Context) (Response, error) {
	r, err := model.NewOnlineScoreRequest(args)
	if err != nil {
		return validationFailure(err)
	}
	r.IsAdmin = req.IsAdmin()
	if err := r.Validate(); err != nil {
		return validationFailure(err)
	}

	rc.Has = r.Has()

	var score float64
	if r.IsAdmin {
		score = AdminScore
	} else {
		score = d.scoring.GetScore(ctx, r.ScoreInput())
	}
	return Response{Payload: map[string]float64{"score": score}, Code: StatusOK}, nil
}

func (d *Dispatcher) clientsInterests(ctx context.Context, _ *model.MethodRequest, args map[string]any, rc *Context) (Response, error) {
	r, err := model.NewClientsInterestsRequest(args)
	if err != nil {
		return validationFailure(err)
	}
	if err := r.Validate(); err != nil {
		return validationFailure(err)
	}

	ids := r.ClientIDs()
	n := len(ids)
	rc.NClients = &n

	result := make(map[string][]string, n)
	for _, id := range ids {
		interests, err := d.scoring.GetInterests(ctx, id)
		if err != nil {
			return Response{}, fmt.Errorf("clients_interests: %w", err)
		}
		result[strconv.FormatInt(id, 10)] = interests
	}
	return Response{Payload: result, Code: StatusOK}, nil
}

func invalid(msg string) Response {
	return Response{Payload: msg, Code: StatusInvalidRequest}
}

// validationFailure превращает ошибку валидации в ответ 422,
// любую другую ошибку пробрасывает как непредвиденную
func validationFailure(err error) (Response, error) {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return invalid(verr.Error()), nil
	}
	var ferr *schema.FieldError
	if errors.As(err, &ferr) {
		return invalid(ferr.Error()), nil
	}
	return Response{}, err
}
