// Package widget is the chat controller shared by the TUI and the one-shot
// query command. It reads the input field, echoes the user message, sends
// the query and applies the reply to a View.
package widget

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/diogo/bookchat/internal/errors"
	"github.com/diogo/bookchat/internal/models"
)

// Field is the bound text input.
type Field interface {
	Value() string
	SetValue(string)
}

// View displays the transcript. It is only called from the event loop.
type View interface {
	Append(models.Message)
	ScrollToBottom()
}

// Querier sends a query to the assistant.
type Querier interface {
	Query(ctx context.Context, query string) (*models.QueryResponse, error)
}

// Renderer converts markdown into display text.
type Renderer interface {
	Render(markdown string) (string, error)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(markdown string) (string, error)

func (f RenderFunc) Render(markdown string) (string, error) {
	return f(markdown)
}

// passthrough leaves markdown untouched
var passthrough = RenderFunc(func(markdown string) (string, error) {
	return markdown, nil
})

// Result is the settled outcome of one request.
type Result struct {
	Request  models.QueryRequest
	Response *models.QueryResponse
	Err      error
}

// ErrorEvent reports a failed request to the UI.
type ErrorEvent struct {
	Request models.QueryRequest
	Err     error
}

func (e ErrorEvent) Error() string {
	return fmt.Sprintf("query %d failed: %v", e.Request.ID, e.Err)
}

func (e ErrorEvent) Unwrap() error {
	return e.Err
}

// Option configures a Widget.
type Option func(*Widget)

// WithOrder sets the ordering policy for overlapping replies.
func WithOrder(order Order) Option {
	return func(w *Widget) {
		w.order = order
	}
}

// WithRenderer sets the markdown renderer. The default keeps markdown as is.
func WithRenderer(r Renderer) Option {
	return func(w *Widget) {
		if r != nil {
			w.renderer = r
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Widget) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithErrorHandler registers the callback that receives failed requests.
func WithErrorHandler(fn func(ErrorEvent)) Option {
	return func(w *Widget) {
		w.onError = fn
	}
}

// WithResultBuffer sizes the channel behind Results.
func WithResultBuffer(n int) Option {
	return func(w *Widget) {
		if n >= 0 {
			w.bufferSize = n
		}
	}
}

// Widget is the chat controller.
//
// Only HandleSubmit and Deliver touch the View and both belong on the
// event loop. Fetch may run anywhere.
type Widget struct {
	querier    Querier
	view       View
	renderer   Renderer
	order      Order
	logger     *zap.Logger
	onError    func(ErrorEvent)
	session    string
	bufferSize int
	results    chan Result

	// deliverMu serialises Deliver so buffered replies flush in order
	deliverMu sync.Mutex

	mu            sync.Mutex
	nextID        uint64
	inFlight      int
	nextApply     uint64
	pending       map[uint64]Result
	dropped       map[uint64]struct{}
	latestApplied uint64

	wg sync.WaitGroup
}

// New creates a Widget bound to a querier and a view.
func New(querier Querier, view View, opts ...Option) (*Widget, error) {
	if querier == nil {
		return nil, fmt.Errorf("widget: querier is required")
	}
	if view == nil {
		return nil, fmt.Errorf("widget: view is required")
	}

	w := &Widget{
		querier:    querier,
		view:       view,
		renderer:   passthrough,
		order:      OrderArrival,
		logger:     zap.NewNop(),
		session:    uuid.NewString(),
		bufferSize: 16,
		nextApply:  1,
		pending:    make(map[uint64]Result),
		dropped:    make(map[uint64]struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if !w.order.Valid() {
		return nil, fmt.Errorf("widget: unknown order %q", w.order)
	}

	w.logger = w.logger.With(zap.String("session", w.session))
	w.results = make(chan Result, w.bufferSize)

	return w, nil
}

// Session identifies this widget in logs.
func (w *Widget) Session() string {
	return w.session
}

// Order returns the ordering policy.
func (w *Widget) Order() Order {
	return w.order
}

// Results carries the outcomes of requests started with Submit.
func (w *Widget) Results() <-chan Result {
	return w.results
}

// InFlight returns the number of requests handed out but not yet delivered.
func (w *Widget) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// HandleSubmit consumes the field. The trimmed text is echoed as a user
// message even when empty, and the field is cleared before any request.
// It returns false when there is nothing to send.
func (w *Widget) HandleSubmit(field Field) (models.QueryRequest, bool) {
	text := models.NormalizeInput(field.Value())
	field.SetValue("")

	w.view.Append(models.NewUserMessage(text))

	if text == "" {
		w.logger.Debug("empty input, nothing sent")
		return models.QueryRequest{}, false
	}

	w.mu.Lock()
	w.nextID++
	req, ok := models.NewQueryRequest(w.nextID, text)
	if ok {
		w.inFlight++
	}
	w.mu.Unlock()

	return req, ok
}

// Fetch performs the request. It does not touch the view.
func (w *Widget) Fetch(ctx context.Context, req models.QueryRequest) Result {
	logger := w.requestLogger(req)
	logger.Debug("query sent")

	resp, err := w.querier.Query(ctx, req.Query)
	if err == nil && resp == nil {
		err = apierrors.ErrInvalidResponse
	}

	return Result{Request: req, Response: resp, Err: err}
}

// Deliver applies a settled result according to the ordering policy.
// A success renders the reply, appends it and scrolls to the bottom.
// A failure is logged and reported through the error handler; the view
// is left alone.
func (w *Widget) Deliver(result Result) {
	w.deliverMu.Lock()
	defer w.deliverMu.Unlock()

	for _, r := range w.settle(result) {
		w.apply(r)
	}
}

// Submit runs HandleSubmit and fetches in the background. The result
// arrives on Results and must be passed to Deliver by the caller.
func (w *Widget) Submit(ctx context.Context, field Field) (models.QueryRequest, bool) {
	req, ok := w.HandleSubmit(field)
	if !ok {
		return req, false
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		result := w.Fetch(ctx, req)
		select {
		case w.results <- result:
		case <-ctx.Done():
			w.drop(req)
		}
	}()

	return req, true
}

// Wait blocks until every Submit goroutine has handed off its result.
func (w *Widget) Wait() {
	w.wg.Wait()
}

// settle records the result and returns what is ready to apply, in order.
func (w *Widget) settle(result Result) []Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight > 0 {
		w.inFlight--
	}

	id := result.Request.ID
	switch w.order {
	case OrderSubmission:
		w.pending[id] = result
		return w.flushLocked()

	case OrderLatest:
		if id < w.latestApplied {
			w.requestLogger(result.Request).Debug("stale reply discarded",
				zap.Uint64("latest_applied", w.latestApplied),
			)
			return nil
		}
		w.latestApplied = id
		return []Result{result}

	default:
		return []Result{result}
	}
}

// flushLocked pops consecutive results starting at the cursor.
func (w *Widget) flushLocked() []Result {
	var ready []Result
	for {
		if _, ok := w.dropped[w.nextApply]; ok {
			delete(w.dropped, w.nextApply)
			w.nextApply++
			continue
		}
		r, ok := w.pending[w.nextApply]
		if !ok {
			return ready
		}
		delete(w.pending, w.nextApply)
		ready = append(ready, r)
		w.nextApply++
	}
}

// drop forgets a request whose result could not be handed off.
func (w *Widget) drop(req models.QueryRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight > 0 {
		w.inFlight--
	}
	if w.order == OrderSubmission {
		w.dropped[req.ID] = struct{}{}
	}
	w.requestLogger(req).Debug("result dropped, context done")
}

func (w *Widget) apply(r Result) {
	if r.Err != nil {
		w.fail(r.Request, r.Err)
		return
	}

	rendered, err := w.renderer.Render(r.Response.Text)
	if err != nil {
		w.fail(r.Request, fmt.Errorf("render reply: %w", err))
		return
	}

	w.view.Append(models.NewBotMessage(r.Response.Text, rendered))
	w.view.ScrollToBottom()

	w.requestLogger(r.Request).Info("reply applied",
		zap.String("field", r.Response.Field),
		zap.Int("bytes", len(r.Response.Text)),
	)
}

func (w *Widget) fail(req models.QueryRequest, err error) {
	fields := []zap.Field{zap.Error(err)}
	if status := apierrors.GetHTTPStatus(err); status != 0 {
		fields = append(fields, zap.Int("status", status))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		fields = append(fields, zap.String("endpoint", endpoint))
	}
	w.requestLogger(req).Error("query failed", fields...)

	if w.onError != nil {
		w.onError(ErrorEvent{Request: req, Err: err})
	}
}

func (w *Widget) requestLogger(req models.QueryRequest) *zap.Logger {
	return w.logger.With(
		zap.Uint64("request_id", req.ID),
		zap.String("query", req.Query),
	)
}
