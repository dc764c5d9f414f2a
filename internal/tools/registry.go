// Package tools exposes the shop, sales, wellness, tutoring and fraud
// operations as LLM function tools. Every call returns a Result; errors and
// panics never cross this boundary.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	catalogapp "github.com/dwikikusuma/shoping-voice/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/shoping-voice/internal/checkout/app"
	faqapp "github.com/dwikikusuma/shoping-voice/internal/faq/app"
	fraudapp "github.com/dwikikusuma/shoping-voice/internal/fraud/app"
	leadapp "github.com/dwikikusuma/shoping-voice/internal/lead/app"
	orderapp "github.com/dwikikusuma/shoping-voice/internal/order/app"
	"github.com/dwikikusuma/shoping-voice/internal/session"
	tutorapp "github.com/dwikikusuma/shoping-voice/internal/tutor/app"
	wellnessapp "github.com/dwikikusuma/shoping-voice/internal/wellness/app"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/grpc/codes"
)

type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
	// Items is the element type of an array parameter.
	Items ParamType
}

type call struct {
	sessionID string
	args      []byte
	// sess is set, and locked, for session tools only
	sess *session.Session
}

type handlerFunc func(ctx context.Context, c *call) (Result, error)

type Tool struct {
	Name        string
	Description string
	Params      []Param

	session bool
	handle  handlerFunc
}

// Deps are the services behind the tools. Nil services leave their tools
// unregistered.
type Deps struct {
	Catalog  *catalogapp.Service
	Sessions *session.Registry
	Checkout *checkoutapp.Service
	Orders   *orderapp.Service
	FAQ      *faqapp.Service
	Leads    *leadapp.Service
	Wellness *wellnessapp.Service
	Tutor    *tutorapp.Service
	Fraud    *fraudapp.Service

	// Timeout bounds each call; zero means no limit.
	Timeout time.Duration
	Log     *slog.Logger
}

type Registry struct {
	deps  Deps
	tools map[string]*Tool
	order []string
	log   *slog.Logger
}

func NewRegistry(d Deps) *Registry {
	r := &Registry{
		deps:  d,
		tools: make(map[string]*Tool),
		log:   logger.OrDefault(d.Log),
	}

	if d.Catalog != nil {
		r.registerCatalog()
	}
	if d.Sessions != nil && d.Catalog != nil {
		r.registerCart()
	}
	if d.Sessions != nil && d.Checkout != nil && d.Orders != nil {
		r.registerOrders()
	}
	if d.FAQ != nil || d.Leads != nil {
		r.registerSales()
	}
	if d.Wellness != nil {
		r.registerWellness()
	}
	if d.Sessions != nil && d.Tutor != nil {
		r.registerTutor()
	}
	if d.Fraud != nil {
		r.registerFraud()
	}
	return r
}

func (r *Registry) add(t *Tool) {
	if _, dup := r.tools[t.Name]; dup {
		panic(fmt.Sprintf("tools: duplicate tool %q", t.Name))
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// Names lists registered tools in registration order.
func (r *Registry) Names() []string { return slices.Clone(r.order) }

func (r *Registry) Tool(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns the tools as OpenAI function definitions.
func (r *Registry) Definitions() ([]openai.Tool, error) {
	out := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		schema, err := sonic.Marshal(t.schema())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal parameters for %s: %w", name, err)
		}

		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(schema),
			},
		})
	}
	return out, nil
}

func (t *Tool) schema() map[string]any {
	properties := make(map[string]any, len(t.Params))
	required := make([]string, 0, len(t.Params))

	for _, p := range t.Params {
		prop := map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Type == TypeArray {
			items := p.Items
			if items == "" {
				items = TypeString
			}
			prop["items"] = map[string]any{"type": string(items)}
		}
		if p.Type == TypeObject {
			prop["additionalProperties"] = map[string]any{"type": "string"}
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Dispatch runs tool name with JSON arguments for sessionID. Session tools
// run under the session's lock, so calls for one conversation never overlap.
func (r *Registry) Dispatch(ctx context.Context, sessionID, name string, rawArgs []byte) (res Result) {
	start := time.Now()
	log := r.log.With(slog.String("tool", name), slog.String("session_id", sessionID))

	defer func() {
		if p := recover(); p != nil {
			log.Error("tool panicked", slog.Any("panic", p))
			res = fail(codes.Internal, internalMessage)
		}
		log.Info("tool call",
			slog.Bool("success", res.Success),
			slog.String("code", res.Code),
			slog.Duration("took", time.Since(start)),
		)
	}()

	t, found := r.tools[name]
	if !found {
		return fail(codes.NotFound, fmt.Sprintf("%v: %s", errUnknownTool, name))
	}

	sessionID = strings.TrimSpace(sessionID)
	if t.session && sessionID == "" {
		return fail(codes.InvalidArgument, "session id is required")
	}

	if r.deps.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.deps.Timeout)
		defer cancel()
	}

	c := &call{sessionID: sessionID, args: rawArgs}
	if t.session {
		sess := r.deps.Sessions.GetOrCreate(ctx, sessionID)
		sess.Lock()
		defer sess.Unlock()
		c.sess = sess
	}

	out, err := t.handle(ctx, c)
	if err != nil {
		switch code := mapErr(err); code {
		case codes.Internal:
			log.Error("tool failed", slog.Any("err", err))
			return fail(code, internalMessage)
		case codes.Unavailable:
			log.Error("tool failed", slog.Any("err", err))
			return fail(code, err.Error())
		default:
			log.Info("tool rejected", slog.Any("err", err))
			return fail(code, err.Error())
		}
	}
	return out
}

// HandleToolCall runs an OpenAI tool call and returns the tool message to
// append to the conversation.
func (r *Registry) HandleToolCall(ctx context.Context, sessionID string, tc openai.ToolCall) openai.ChatCompletionMessage {
	res := r.Dispatch(ctx, sessionID, tc.Function.Name, []byte(tc.Function.Arguments))

	content, err := sonic.MarshalString(res)
	if err != nil {
		r.log.Error("tool result encode failed", slog.String("tool", tc.Function.Name), slog.Any("err", err))
		content = `{"success":false,"message":"` + internalMessage + `","code":"INTERNAL"}`
	}

	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    content,
		Name:       tc.Function.Name,
		ToolCallID: tc.ID,
	}
}

// decode unmarshals tool arguments into T. Empty arguments decode to the zero
// value.
func decode[T any](raw []byte) (T, error) {
	var v T
	if len(strings.TrimSpace(string(raw))) == 0 {
		return v, nil
	}
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", errBadArgs, err)
	}
	return v, nil
}

func requireArg(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", errBadArgs, field)
	}
	return nil
}
