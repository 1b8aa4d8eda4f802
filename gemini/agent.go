package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

var _ findmystore.Chatter = (*Agent)(nil)

// Chat limits.
const (
	DefaultHistoryLimit  = 20
	DefaultMaxToolRounds = 5
)

const agentInstruction = `You are FindMyStore, a friendly shopping assistant for local stores in India.
Use the tools to find stores, check stock and prices, compare prices, plan shopping lists, give directions and set up restock alerts.
Always look up store IDs with find_stores before calling tools that need a store_id.
Prices are in Indian rupees (₹). Keep answers short and mention store names, prices and quantities.
If a tool returns an error, explain the problem to the user instead of guessing.`

// Agent implements findmystore.Chatter as a Gemini function-calling loop
// over a Toolbox. History is kept per session in a MessageService.
type Agent struct {
	gen      ContentGenerator
	model    string
	messages findmystore.MessageService
	tools    findmystore.Toolbox

	// Number of past messages sent with each turn.
	HistoryLimit int

	// Number of tool-call rounds allowed per turn.
	MaxToolRounds int
}

// NewAgent creates a new Agent. An empty model uses DefaultModel.
func NewAgent(gen ContentGenerator, model string, messages findmystore.MessageService, tools findmystore.Toolbox) *Agent {
	if model == "" {
		model = DefaultModel
	}
	return &Agent{
		gen:           gen,
		model:         model,
		messages:      messages,
		tools:         tools,
		HistoryLimit:  DefaultHistoryLimit,
		MaxToolRounds: DefaultMaxToolRounds,
	}
}

// Chat sends a message to a session and returns the assistant's reply. Both
// turns are stored only if the reply succeeds.
func (a *Agent) Chat(ctx context.Context, sessionID, message string) (*findmystore.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "message required")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := a.messages.FindMessages(ctx, sessionID, a.HistoryLimit)
	if err != nil {
		return nil, err
	}
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, genai.NewContentFromText(m.Content, contentRole(m.Role)))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	config := a.config()
	reply := &findmystore.ChatReply{SessionID: sessionID}
	for round := 0; ; round++ {
		resp, err := a.gen.GenerateContent(ctx, a.model, contents, config)
		if err != nil {
			return nil, err
		}
		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, findmystore.Errorf(findmystore.EINTERNAL, "gemini returned no candidates")
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			reply.Text = strings.TrimSpace(resp.Text())
			break
		}
		if round >= a.MaxToolRounds {
			return nil, findmystore.Errorf(findmystore.EINTERNAL, "tool call limit reached")
		}

		contents = append(contents, resp.Candidates[0].Content)
		parts := make([]*genai.Part, len(calls))
		for i, call := range calls {
			reply.ToolCalls = append(reply.ToolCalls, call.Name)
			parts[i] = &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: a.call(ctx, call),
			}}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	if err := a.messages.CreateMessages(ctx, []*findmystore.Message{
		{SessionID: sessionID, Role: findmystore.RoleUser, Content: message},
		{SessionID: sessionID, Role: findmystore.RoleAssistant, Content: reply.Text},
	}); err != nil {
		return nil, err
	}
	return reply, nil
}

// call runs a tool and wraps its result or error for the model.
func (a *Agent) call(ctx context.Context, call *genai.FunctionCall) map[string]any {
	out, err := a.tools.Call(ctx, call.Name, call.Args)
	if err != nil {
		return map[string]any{"error": findmystore.ErrorMessage(err)}
	}
	return map[string]any{"result": out}
}

func (a *Agent) config() *genai.GenerateContentConfig {
	temp := float32(0.3)
	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(agentInstruction),
		Temperature:       &temp,
	}
	if specs := a.tools.Tools(); len(specs) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(specs))
		for i, s := range specs {
			decls[i] = FunctionDeclaration(s)
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

func contentRole(r findmystore.Role) genai.Role {
	if r == findmystore.RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// FunctionDeclaration converts a tool spec into a Gemini declaration.
func FunctionDeclaration(spec findmystore.ToolSpec) *genai.FunctionDeclaration {
	params := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(spec.Params)),
	}
	for _, p := range spec.Params {
		params.Properties[p.Name] = paramSchema(p)
		if p.Required {
			params.Required = append(params.Required, p.Name)
		}
	}
	return &genai.FunctionDeclaration{
		Name:        spec.Name,
		Description: spec.Description,
		Parameters:  params,
	}
}

func paramSchema(p findmystore.ToolParam) *genai.Schema {
	s := &genai.Schema{Description: p.Description, Enum: p.Enum}
	switch p.Type {
	case findmystore.ToolParamNumber:
		s.Type = genai.TypeNumber
	case findmystore.ToolParamInteger:
		s.Type = genai.TypeInteger
	case findmystore.ToolParamBoolean:
		s.Type = genai.TypeBoolean
	case findmystore.ToolParamStringArray:
		s.Type = genai.TypeArray
		s.Items = &genai.Schema{Type: genai.TypeString}
	default:
		s.Type = genai.TypeString
	}
	return s
}
