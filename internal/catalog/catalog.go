// Package catalog holds the static model portfolios and ETF reference data.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"robo-advisor/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrUnknownBucket is returned for a bucket outside [0,4].
var ErrUnknownBucket = errors.New("unknown bucket")

// ErrUnknownTicker is returned for a ticker without reference data.
var ErrUnknownTicker = errors.New("unknown ticker")

// file is the on-disk shape (YAML).
type file struct {
	Portfolios []struct {
		Bucket   model.Bucket    `yaml:"bucket"`
		Holdings model.Portfolio `yaml:"holdings"`
	} `yaml:"portfolios"`
	ETFs []model.ETFInfo `yaml:"etfs"`
}

// Catalog is immutable once loaded; accessors return copies.
type Catalog struct {
	portfolios [model.NumBuckets]model.Portfolio
	etfs       []model.ETFInfo
	byTicker   map[string]int
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for package initialisation and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file. An empty path loads the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	c := &Catalog{byTicker: make(map[string]int, len(f.ETFs))}
	for _, e := range f.ETFs {
		if e.Ticker == "" {
			return nil, errors.New("etf with empty ticker")
		}
		if _, dup := c.byTicker[e.Ticker]; dup {
			return nil, fmt.Errorf("duplicate etf %s", e.Ticker)
		}
		c.byTicker[e.Ticker] = len(c.etfs)
		c.etfs = append(c.etfs, e)
	}
	seen := [model.NumBuckets]bool{}
	for _, p := range f.Portfolios {
		if !p.Bucket.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownBucket, p.Bucket)
		}
		if seen[p.Bucket] {
			return nil, fmt.Errorf("duplicate portfolio for bucket %d", p.Bucket)
		}
		if err := p.Holdings.Validate(); err != nil {
			return nil, fmt.Errorf("bucket %d: %w", p.Bucket, err)
		}
		for _, h := range p.Holdings {
			if _, ok := c.byTicker[h.Ticker]; !ok {
				return nil, fmt.Errorf("bucket %d: %w %s", p.Bucket, ErrUnknownTicker, h.Ticker)
			}
		}
		seen[p.Bucket] = true
		c.portfolios[p.Bucket] = p.Holdings
	}
	for b, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("missing portfolio for bucket %d", b)
		}
	}
	return c, nil
}

// Portfolio returns the model portfolio of a bucket.
func (c *Catalog) Portfolio(b model.Bucket) (model.Portfolio, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBucket, b)
	}
	return c.portfolios[b].Clone(), nil
}

// ETF returns the reference data of a ticker.
func (c *Catalog) ETF(ticker string) (model.ETFInfo, error) {
	i, ok := c.byTicker[ticker]
	if !ok {
		return model.ETFInfo{}, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	return c.etfs[i], nil
}

// ETFs returns all reference records in catalog order.
func (c *Catalog) ETFs() []model.ETFInfo {
	return append([]model.ETFInfo(nil), c.etfs...)
}

// Holdings returns the reference data of every holding of p, in order.
// Tickers missing from the catalog are skipped.
func (c *Catalog) Holdings(p model.Portfolio) []model.ETFInfo {
	out := make([]model.ETFInfo, 0, len(p))
	for _, h := range p {
		if e, err := c.ETF(h.Ticker); err == nil {
			out = append(out, e)
		}
	}
	return out
}
