package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/partsdesk/partsdesk/pkg/catalog"
	"github.com/partsdesk/partsdesk/pkg/guardrail"
)

// ToolFunc executes one catalog operation against loosely-typed
// arguments. Results are maps so the summarizer and the model-facing
// layers share one representation.
type ToolFunc func(ctx context.Context, args map[string]any) (map[string]any, error)

type Tool struct {
	Name        string
	Description string
	Run         ToolFunc
}

type Registry struct {
	tools  map[string]Tool
	logger *logrus.Logger
}

type searchPartsArgs struct {
	Query         string `mapstructure:"query"`
	ApplianceType string `mapstructure:"appliance_type"`
}

type compatibilityArgs struct {
	PartNumber  string `mapstructure:"part_number"`
	ModelNumber string `mapstructure:"model_number"`
}

type partNumberArgs struct {
	PartNumber string `mapstructure:"part_number"`
}

type troubleshootingArgs struct {
	Issue         string `mapstructure:"issue"`
	ApplianceType string `mapstructure:"appliance_type"`
}

// NewRegistry wires the catalog operations as named tools. Unknown keys
// in the argument maps are ignored, mirroring how model-supplied
// arguments are filtered before execution.
func NewRegistry(logger *logrus.Logger, store *catalog.Store) *Registry {
	r := &Registry{tools: map[string]Tool{}, logger: logger}

	r.register(Tool{
		Name:        "search_parts",
		Description: "Search for parts by keyword, model, or part number",
		Run: func(_ context.Context, args map[string]any) (map[string]any, error) {
			var a searchPartsArgs
			if err := decodeArgs(args, &a); err != nil {
				return nil, err
			}
			if a.ApplianceType == "" {
				a.ApplianceType = "both"
			}
			return toMap(store.SearchParts(a.Query, a.ApplianceType))
		},
	})

	r.register(Tool{
		Name:        "check_compatibility",
		Description: "Check if a part is compatible with a specific model",
		Run: func(_ context.Context, args map[string]any) (map[string]any, error) {
			var a compatibilityArgs
			if err := decodeArgs(args, &a); err != nil {
				return nil, err
			}
			return toMap(store.CheckCompatibility(a.PartNumber, a.ModelNumber))
		},
	})

	r.register(Tool{
		Name:        "get_installation_guide",
		Description: "Get installation instructions for a part",
		Run: func(_ context.Context, args map[string]any) (map[string]any, error) {
			var a partNumberArgs
			if err := decodeArgs(args, &a); err != nil {
				return nil, err
			}
			return toMap(store.InstallationGuide(a.PartNumber))
		},
	})

	r.register(Tool{
		Name:        "get_troubleshooting_guide",
		Description: "Get a troubleshooting guide for a common issue",
		Run: func(_ context.Context, args map[string]any) (map[string]any, error) {
			var a troubleshootingArgs
			if err := decodeArgs(args, &a); err != nil {
				return nil, err
			}
			return toMap(store.TroubleshootingGuide(a.Issue, a.ApplianceType))
		},
	})

	r.register(Tool{
		Name:        "get_part_details",
		Description: "Get detailed information about a specific part",
		Run: func(_ context.Context, args map[string]any) (map[string]any, error) {
			var a partNumberArgs
			if err := decodeArgs(args, &a); err != nil {
				return nil, err
			}
			return toMap(store.PartDetails(a.PartNumber))
		},
	})

	return r
}

func (r *Registry) register(t Tool) {
	r.tools[t.Name] = t
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Execute runs a tool and records its usage on the request context. Parts
// surfaced by search and detail lookups are tracked so the guardrail can
// cross-check identifiers mentioned in the final answer.
func (r *Registry) Execute(
	ctx context.Context,
	name string,
	args map[string]any,
	reqCtx *guardrail.RequestContext,
) (map[string]any, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	r.logger.WithFields(logrus.Fields{"tool": name, "args": args}).Debug("executing tool")
	result, err := tool.Run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", name, err)
	}

	reqCtx.RecordTool(name)
	trackParts(name, result, reqCtx)

	return result, nil
}

func trackParts(toolName string, result map[string]any, reqCtx *guardrail.RequestContext) {
	found, _ := result["found"].(bool)
	if !found {
		return
	}
	switch toolName {
	case "search_parts":
		if items, ok := result["results"].([]any); ok {
			for i, item := range items {
				if i == 5 {
					break
				}
				if m, ok := item.(map[string]any); ok {
					if pn, ok := m["part_number"].(string); ok {
						reqCtx.RecordPart(pn)
					}
				}
			}
		}
	case "get_part_details":
		if pn, ok := result["part_number"].(string); ok {
			reqCtx.RecordPart(pn)
		}
	}
}

func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build args decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("failed to decode tool args: %w", err)
	}
	return nil
}

// toMap round-trips a typed result through JSON so tool consumers all see
// the same loosely-typed shape.
func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool result: %w", err)
	}
	return out, nil
}
