package inference

// DefaultModel is the model identifier used when neither the request nor the
// client config names one.
const DefaultModel = "gemma3"

// Request is one logical text-generation request.
// Requests are values; build a fresh one per call.
type Request struct {
	// Prompt is the full prompt text. Callers check for emptiness before invoking.
	Prompt string
	// Model overrides the client's default model when non-empty.
	Model string
	// Options are sampling options. The zero value sends DefaultOptions.
	Options Options
	// Stop lists optional stop sequences.
	Stop []string
}

// Options are sampling options forwarded to the service.
type Options struct {
	Temperature float64 `yaml:"temperature" json:"temperature"`
	TopP        float64 `yaml:"top_p" json:"top_p"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
}

// DefaultOptions returns the sampling options used for structured documents.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, TopP: 0.9, MaxTokens: 2000}
}

// IsZero reports whether no option is set.
func (o Options) IsZero() bool {
	return o == Options{}
}

// generateRequest is the wire body POSTed to the generate endpoint.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	MaxTokens   int      `json:"max_tokens"`
	Stop        []string `json:"stop,omitempty"`
}

// generateResponse is the wire body returned by the service.
// Response is a pointer so that a missing field is distinguishable from "".
type generateResponse struct {
	Response *string `json:"response"`
	Error    string  `json:"error"`
}

func toWire(req Request, defaultModel string) generateRequest {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	opts := req.Options
	if opts.IsZero() {
		opts = DefaultOptions()
	}
	return generateRequest{
		Model:  model,
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			MaxTokens:   opts.MaxTokens,
			Stop:        req.Stop,
		},
	}
}
