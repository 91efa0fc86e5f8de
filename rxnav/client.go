// Package rxnav provides a client for the RxNav terminology service
// (https://rxnav.nlm.nih.gov/REST), covering RxNorm identifier resolution,
// concept properties, NDC listings, related-concept walks and RxClass
// ATC classification lookups.
//
// Absent fields in a response mean "no data" and yield empty results.
// Transport and status failures are returned as errors; callers decide how
// to degrade. Every call is a single attempt with a fixed timeout, no
// retries. A shared circuit breaker trips after repeated upstream failures
// so a flapping service fails fast instead of burning a timeout per call.
package rxnav

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/metrics"
)

// DefaultBaseURL is the public RxNav endpoint.
const DefaultBaseURL = "https://rxnav.nlm.nih.gov/REST"

const (
	pointTimeout = 10 * time.Second // single-concept lookups
	rangeTimeout = 30 * time.Second // class-listing range queries
)

// Term types used by the cross-reference expansion. SCD/SBD are clinical and
// branded drugs, GPCK/BPCK generic and branded packs, IN active ingredients.
const (
	TTYSCD  = "SCD"
	TTYSBD  = "SBD"
	TTYGPCK = "GPCK"
	TTYBPCK = "BPCK"
	TTYIN   = "IN"
)

// PackTTYs selects trade and package level concepts for the ATC to NDC walk.
var PackTTYs = []string{TTYSCD, TTYSBD, TTYGPCK, TTYBPCK}

// IngredientTTYs selects ingredient concepts for the NDC to ATC fallback.
var IngredientTTYs = []string{TTYIN}

// ATCClass is one ATC classification entry returned by RxClass.
type ATCClass struct {
	Code      string `json:"atc_code"`
	ClassName string `json:"class_name"`
	ClassType string `json:"class_type"`
}

// Client talks to the RxNav REST API.
type Client struct {
	baseURL     string
	pointClient *http.Client
	rangeClient *http.Client
	breaker     *gobreaker.CircuitBreaker
}

// NewClient creates a client for the given base URL. An empty baseURL uses
// the public RxNav endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	settings := gobreaker.Settings{
		Name:        "rxnav",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn("Circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		pointClient: &http.Client{Timeout: pointTimeout},
		rangeClient: &http.Client{Timeout: rangeTimeout},
		breaker:     gobreaker.NewCircuitBreaker(settings),
	}
}

// get performs a single GET through the circuit breaker and decodes the JSON
// body into out.
func (c *Client) get(ctx context.Context, client *http.Client, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	// The trailing path segment names the endpoint without the embedded
	// identifiers, keeping the metric cardinality bounded
	endpoint := path[strings.LastIndex(path, "/")+1:]

	_, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
		}

		resp, err := client.Do(req)
		if err != nil {
			metrics.TerminologyRequestTotals.WithLabelValues(endpoint, "error").Inc()
			return nil, fmt.Errorf("request to %s failed: %w", path, err)
		}
		metrics.TerminologyRequestTotals.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logging.Warn("Failed to close response body", "error", err)
			}
		}()

		if resp.StatusCode != http.StatusOK {
			// Drain so the connection can be reused
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
		}

		return nil, nil
	})

	return err
}

type idGroupResponse struct {
	IDGroup struct {
		RxNormIDs []string `json:"rxnormId"`
	} `json:"idGroup"`
}

// RxCUIsByATC resolves an ATC code to its RxNorm concept identifiers.
// One ATC code can map to several concepts (different formulations).
func (c *Client) RxCUIsByATC(ctx context.Context, atcCode string) ([]string, error) {
	query := url.Values{"idtype": {"ATC"}, "id": {atcCode}}

	var resp idGroupResponse
	if err := c.get(ctx, c.pointClient, "/rxcui.json", query, &resp); err != nil {
		return nil, err
	}

	return resp.IDGroup.RxNormIDs, nil
}

// RxCUIByNDC resolves an 11-digit NDC to its single RxNorm concept
// identifier. The service returns at most one canonical concept per NDC;
// an empty string means the code is unmapped.
func (c *Client) RxCUIByNDC(ctx context.Context, ndc string) (string, error) {
	query := url.Values{"idtype": {"NDC"}, "id": {ndc}}

	var resp idGroupResponse
	if err := c.get(ctx, c.pointClient, "/rxcui.json", query, &resp); err != nil {
		return "", err
	}

	if len(resp.IDGroup.RxNormIDs) == 0 {
		return "", nil
	}
	return resp.IDGroup.RxNormIDs[0], nil
}

// ConceptName looks up the human-readable name of a concept. An empty string
// means the concept has no name on record.
func (c *Client) ConceptName(ctx context.Context, rxcui string) (string, error) {
	var resp struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	}

	path := "/rxcui/" + url.PathEscape(rxcui) + "/properties.json"
	if err := c.get(ctx, c.pointClient, path, nil, &resp); err != nil {
		return "", err
	}

	return resp.Properties.Name, nil
}

// NDCs lists the NDC package codes directly associated with a concept.
func (c *Client) NDCs(ctx context.Context, rxcui string) ([]string, error) {
	var resp struct {
		NDCGroup struct {
			NDCList struct {
				NDC []string `json:"ndc"`
			} `json:"ndcList"`
		} `json:"ndcGroup"`
	}

	path := "/rxcui/" + url.PathEscape(rxcui) + "/ndcs.json"
	if err := c.get(ctx, c.pointClient, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp.NDCGroup.NDCList.NDC, nil
}

type relatedResponse struct {
	RelatedGroup struct {
		ConceptGroup []struct {
			TTY               string `json:"tty"`
			ConceptProperties []struct {
				RxCUI string `json:"rxcui"`
			} `json:"conceptProperties"`
		} `json:"conceptGroup"`
	} `json:"relatedGroup"`
}

// Related returns the concepts related to rxcui restricted to the given term
// types, in response order, excluding rxcui itself.
func (c *Client) Related(ctx context.Context, rxcui string, ttys []string) ([]string, error) {
	query := url.Values{"tty": {strings.Join(ttys, " ")}}

	var resp relatedResponse
	path := "/rxcui/" + url.PathEscape(rxcui) + "/related.json"
	if err := c.get(ctx, c.pointClient, path, query, &resp); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(ttys))
	for _, tty := range ttys {
		wanted[tty] = true
	}

	var related []string
	for _, group := range resp.RelatedGroup.ConceptGroup {
		if !wanted[group.TTY] {
			continue
		}
		for _, prop := range group.ConceptProperties {
			if prop.RxCUI != "" && prop.RxCUI != rxcui {
				related = append(related, prop.RxCUI)
			}
		}
	}

	return related, nil
}

// ATCClasses returns the ATC classifications attached to a concept. Many
// packaged products have none; classifications often live only at the
// ingredient level.
func (c *Client) ATCClasses(ctx context.Context, rxcui string) ([]ATCClass, error) {
	var resp struct {
		RxClassDrugInfoList struct {
			RxClassDrugInfo []struct {
				RxClassMinConceptItem struct {
					ClassID   string `json:"classId"`
					ClassName string `json:"className"`
					ClassType string `json:"classType"`
				} `json:"rxclassMinConceptItem"`
			} `json:"rxclassDrugInfo"`
		} `json:"rxclassDrugInfoList"`
	}

	query := url.Values{"rxcui": {rxcui}, "relaSource": {"ATC"}}
	if err := c.get(ctx, c.pointClient, "/rxclass/class/byRxcui.json", query, &resp); err != nil {
		return nil, err
	}

	var classes []ATCClass
	for _, info := range resp.RxClassDrugInfoList.RxClassDrugInfo {
		item := info.RxClassMinConceptItem
		if item.ClassID == "" {
			continue
		}
		classes = append(classes, ATCClass{
			Code:      item.ClassID,
			ClassName: item.ClassName,
			ClassType: item.ClassType,
		})
	}

	return classes, nil
}

// AllATCClasses fetches every ATC level 1-4 class known to RxClass as a flat
// code to name map. This is the range query behind the offline hierarchy
// table and uses the longer timeout.
func (c *Client) AllATCClasses(ctx context.Context) (map[string]string, error) {
	var resp struct {
		RxClassMinConceptList struct {
			RxClassMinConcept []struct {
				ClassID   string `json:"classId"`
				ClassName string `json:"className"`
			} `json:"rxclassMinConcept"`
		} `json:"rxclassMinConceptList"`
	}

	query := url.Values{"classTypes": {"ATC1-4"}}
	if err := c.get(ctx, c.rangeClient, "/rxclass/allClasses.json", query, &resp); err != nil {
		return nil, err
	}

	classes := make(map[string]string)
	for _, item := range resp.RxClassMinConceptList.RxClassMinConcept {
		code := strings.TrimSpace(item.ClassID)
		name := strings.TrimSpace(item.ClassName)
		if code != "" && name != "" {
			classes[code] = name
		}
	}

	return classes, nil
}
