package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/shelfmatch/backend/internal/domain"
)

const (
	// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel adjudicates well at low latency and cost.
	DefaultModel = "google/gemini-2.5-flash-lite"

	defaultTimeout   = 60 * time.Second
	defaultMaxTokens = 200
	maxAttempts      = 3
)

var controlCharRegex = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

// Config holds the network oracle settings.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client adjudicates shortlists through an OpenRouter-hosted model. It
// implements domain.MatchOracle.
type Client struct {
	api         *openai.Client
	model       string
	rateLimiter *rate.Limiter
	timeout     time.Duration
	logger      zerolog.Logger
}

var _ domain.MatchOracle = (*Client)(nil)

// NewClient creates the oracle client. An empty API key returns
// ErrOracleUnavailable so callers fall back to the local adjudicator.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", domain.ErrOracleUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

// Decide builds the candidate manifest, queries the model and parses its
// JSON verdict. Transport failures retry up to three times; a malformed
// verdict gets exactly one repair pass and is otherwise rejected without
// retrying, since resending the same prompt rarely fixes truncation.
func (c *Client) Decide(ctx context.Context, req domain.OracleRequest) (*domain.OracleDecision, error) {
	if len(req.Candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}

	prompt := buildPrompt(req)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.api.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   defaultMaxTokens,
			Temperature: 0.1,
		})
		cancel()

		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("oracle request failed")
			lastErr = fmt.Errorf("%w: %v", domain.ErrOracleFailure, err)
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Duration(attempt*500) * time.Millisecond):
				}
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("%w: empty completion", domain.ErrOracleFailure)
			continue
		}

		decision, err := parseDecision(resp.Choices[0].Message.Content)
		if err != nil {
			c.logger.Warn().Err(err).Str("raw", resp.Choices[0].Message.Content).Msg("unparsable oracle verdict")
			return nil, err
		}
		return decision, nil
	}

	return nil, lastErr
}

// buildPrompt renders the source summary and enumerated candidate manifest
// with the fixed decision policy.
func buildPrompt(req domain.OracleRequest) string {
	var b strings.Builder

	b.WriteString("House Brand Alternative Finder - EXACT SPECIFICATION MATCHING PRIORITY.\n\n")
	b.WriteString("SOURCE PRODUCT:\n")
	fmt.Fprintf(&b, "- Name: %s\n", req.SourceName)
	fmt.Fprintf(&b, "- Brand: %s\n", req.SourceBrand)
	fmt.Fprintf(&b, "- Category: %s\n", req.SourceCategory)
	fmt.Fprintf(&b, "- Price: ฿%.0f\n", req.SourcePrice)
	fmt.Fprintf(&b, "- KEY SPECS: %s\n", renderSpecs(req.SourceSpecs))
	if len(req.PreferredBrands) > 0 {
		fmt.Fprintf(&b, "- PREFERRED BRANDS (ranked): %s\n", strings.Join(req.PreferredBrands, " > "))
	}

	b.WriteString("\nCANDIDATE ALTERNATIVES (ranked by spec match):\n")
	for pos, cand := range req.Candidates {
		fmt.Fprintf(&b, "%d: %s [Specs: %s] (Brand: %s%s, Tier: %s, Price: ฿%.0f, SpecMatch: %d%%)\n",
			pos, cand.Name, renderSpecs(cand.Specs), cand.Brand,
			preferenceRank(req.PreferredBrands, cand.Brand), cand.Tier, cand.Price, cand.SpecScore)
	}

	b.WriteString(`
MATCHING RULES (STRICT PRIORITY ORDER):
1. EXACT SPEC MATCH - Choose candidate with matching wattage/size/socket/volume FIRST
2. SAME PRODUCT TYPE - Must be the same product type (e.g., downlight->downlight, wall lamp->wall lamp)
3. DIFFERENT BRAND - Must be different brand
4. PREFERRED BRANDS are tie-breakers only when spec match is within ~10 points

CRITICAL: If source has specs like "15W LED E27x1 6inch DAYLIGHT":
- PREFER candidate with SAME wattage (15W), SAME socket (E27x1), SAME size (6inch), SAME color temp (DL/DAYLIGHT)
- Candidates with SpecMatch score 80%+ are strongly preferred
- SpecMatch below 50% should usually be null unless the product type clearly matches

DO NOT match:
- Different wattage (15W vs 10W)
- Different size (6inch vs 4inch)
- Different socket count (E27x1 vs E27x2)
- Different product types

Pick the candidate with HIGHEST spec match that serves the same function.

`)
	fmt.Fprintf(&b, "Return: {\"match_index\": <0-%d or null>, \"confidence\": <50-100>, \"reason\": \"<why specs match>\"}\n", len(req.Candidates)-1)
	b.WriteString("JSON only.")

	return b.String()
}

// preferenceRank renders the candidate's 1-based position in the preferred
// brand list, or nothing when the brand is not listed.
func preferenceRank(preferred []string, brand string) string {
	if brand == "" {
		return ""
	}
	for i, p := range preferred {
		if strings.EqualFold(p, brand) {
			return fmt.Sprintf(", PrefRank: %d", i+1)
		}
	}
	return ""
}

// renderSpecs flattens a spec set into the key=value list the manifest uses,
// sorted for deterministic prompts.
func renderSpecs(set domain.SpecSet) string {
	if len(set.Specs) == 0 {
		return "N/A"
	}
	keys := make([]string, 0, len(set.Specs))
	for k := range set.Specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, set.Specs[k]))
	}
	return strings.Join(parts, ", ")
}

// parseDecision unmarshals the model output, applying one repair pass for
// fenced, control-character-laden or truncated JSON.
func parseDecision(raw string) (*domain.OracleDecision, error) {
	text := repairJSON(raw)

	var decision domain.OracleDecision
	if err := json.Unmarshal([]byte(text), &decision); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDecision, err)
	}
	return &decision, nil
}

// repairJSON strips markdown fences and control characters, and force-closes
// a truncated object.
func repairJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) > 1 {
			text = parts[1]
		}
		text = strings.TrimPrefix(text, "json")
		text = strings.TrimSpace(text)
	}

	text = controlCharRegex.ReplaceAllString(text, "")

	if !strings.HasSuffix(text, "}") {
		if idx := strings.Index(text, "}"); idx >= 0 {
			text = text[:idx+1]
		} else {
			text += "}"
		}
	}
	return text
}
