package watch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/timepiece/pkg/scene"
)

// Catalog is the list of watch models available to the dispenser.
type Catalog struct {
	Watches []Spec `yaml:"watches"`
}

// DecodeCatalog decodes a YAML catalog and validates it. Analog specs must
// carry all three hands with asset references; the animation core itself
// performs no such checks, so the loader is where malformed specs are
// rejected.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decode watch catalog")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads and decodes a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open watch catalog %s", path)
	}
	defer f.Close()

	c, err := DecodeCatalog(f)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", path)
	}
	return c, nil
}

// FetchCatalog downloads and decodes a remote catalog.
func FetchCatalog(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build catalog request %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch watch catalog %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch watch catalog %s: unexpected status %s", url, resp.Status)
	}
	c, err := DecodeCatalog(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", url)
	}
	return c, nil
}

// Lookup finds a model by name.
func (c *Catalog) Lookup(name string) (Spec, bool) {
	for _, s := range c.Watches {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

func (c *Catalog) validate() error {
	seen := make(map[string]struct{}, len(c.Watches))
	for _, s := range c.Watches {
		if s.Name == "" {
			return errors.New("catalog entry without a name")
		}
		if _, dup := seen[s.Name]; dup {
			return errors.Errorf("duplicate catalog entry %q", s.Name)
		}
		seen[s.Name] = struct{}{}

		switch s.Type {
		case TypeAnalog:
			for _, hand := range HandNames {
				hs, ok := s.Hands[hand]
				if !ok {
					return errors.Errorf("analog watch %q is missing the %s hand", s.Name, hand)
				}
				if hs.Asset == "" {
					return errors.Errorf("analog watch %q has no asset for the %s hand", s.Name, hand)
				}
			}
		case TypeDigital:
			// Reserved variant; nothing to validate yet.
		default:
			return errors.Errorf("watch %q has unknown type %q", s.Name, s.Type)
		}
	}
	return nil
}

// DefaultCatalog returns the built-in model list used when no catalog is
// supplied or fetching one fails.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Watches: []Spec{
			analogModel("classic", "asset://watch/classic"),
			analogModel("diver", "asset://watch/diver"),
			{
				Name:  "segment",
				Type:  TypeDigital,
				Asset: "asset://watch/segment",
			},
		},
	}
}

func analogModel(name string, base scene.AssetRef) Spec {
	hands := make(map[HandName]HandSpec, len(HandNames))
	for _, hand := range HandNames {
		hands[hand] = HandSpec{
			Asset:     scene.AssetRef(fmt.Sprintf("%s/%s-hand", base, hand)),
			Transform: scene.Identity(),
		}
	}
	return Spec{
		Name:  name,
		Type:  TypeAnalog,
		Asset: base,
		Hands: hands,
	}
}
