// Package tba looks up team names from The Blue Alliance API.
package tba

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/itobot/scout/internal/dependencies/clock"
)

// DefaultBaseURL is the public v3 API root
const DefaultBaseURL = "https://www.thebluealliance.com/api/v3"

// ErrInvalidTeamNumber is wrapped in a LookupError when the number is not a positive integer
var ErrInvalidTeamNumber = errors.New("invalid team number")

// LookupError reports a failed team-name lookup. Callers absorb it and keep
// whatever name the user typed.
type LookupError struct {
	TeamNumber string
	Err        error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("team %s lookup: %v", e.TeamNumber, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Config holds client settings
type Config struct {
	BaseURL  string
	AuthKey  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// DefaultConfig returns defaults pointing at the public API
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  5 * time.Second,
		CacheTTL: 30 * time.Minute,
	}
}

type cached struct {
	name    string
	fetched time.Time
}

// Client fetches and caches team names
type Client struct {
	cfg   Config
	http  *http.Client
	clock clock.Clock

	mu    sync.Mutex
	cache map[int]cached
}

// New creates a new TBA client
func New(cfg Config, clk clock.Clock) *Client {
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		clock: clk,
		cache: make(map[int]cached),
	}
}

type team struct {
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
}

// TeamName returns the team's nickname, falling back to its full name.
// A team unknown to the API yields "" and no error.
func (c *Client) TeamName(ctx context.Context, teamNumber string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(teamNumber))
	if err != nil || n <= 0 {
		return "", &LookupError{TeamNumber: teamNumber, Err: ErrInvalidTeamNumber}
	}

	if name, ok := c.fromCache(n); ok {
		return name, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/team/frc%d", c.cfg.BaseURL, n), nil)
	if err != nil {
		return "", &LookupError{TeamNumber: teamNumber, Err: err}
	}
	req.Header.Set("X-TBA-Auth-Key", c.cfg.AuthKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &LookupError{TeamNumber: teamNumber, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", &LookupError{TeamNumber: teamNumber, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var t team
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return "", &LookupError{TeamNumber: teamNumber, Err: err}
	}

	name := t.Nickname
	if name == "" {
		name = t.Name
	}
	c.store(n, name)
	return name, nil
}

func (c *Client) fromCache(n int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[n]
	if !ok || c.clock.Now().Sub(entry.fetched) >= c.cfg.CacheTTL {
		return "", false
	}
	return entry.name, true
}

func (c *Client) store(n int, name string) {
	if c.cfg.CacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[n] = cached{name: name, fetched: c.clock.Now()}
}
