package claude

// Model names for the Claude API
// https://docs.anthropic.com/claude/docs/models-overview#model-comparison
const (
	SONNET_3_5 = "claude-3-5-sonnet-20241022"
	HAIKU_3_5  = "claude-3-5-haiku-20241022"
	OPUS       = "claude-3-opus-20240229"
	SONNET     = "claude-3-sonnet-20240229"
	HAIKU      = "claude-3-haiku-20240307"
)

// DefaultModel is used when ChatOptions names no model.
const DefaultModel = SONNET_3_5

var models = []string{SONNET_3_5, HAIKU_3_5, OPUS, SONNET, HAIKU}

// AvailableModels returns the Claude models this library knows about. The
// list is hardcoded and never consults the API, so it can lag behind what the
// vendor actually serves.
func (c *Client) AvailableModels() []string {
	out := make([]string, len(models))
	copy(out, models)
	return out
}
