// Command ctsresolve is the CLI tool for the CTS resolver.
// It resolves CTS URNs against a corpus, manages inventory databases, and
// serves the REST API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kong"

	"github.com/scaife-viewer/ctsresolver/core/cache"
	"github.com/scaife-viewer/ctsresolver/core/hookset"
	"github.com/scaife-viewer/ctsresolver/core/inventory"
	"github.com/scaife-viewer/ctsresolver/core/resolver"
	"github.com/scaife-viewer/ctsresolver/internal/api"
	"github.com/scaife-viewer/ctsresolver/internal/config"
)

const version = "0.1.0"

// CLI defines the command-line interface for ctsresolve.
var CLI struct {
	// Command groups (noun-first organization)
	Resolve   ResolveCmd     `cmd:"" help:"Resolve a CTS URN against a corpus"`
	Inventory InventoryGroup `cmd:"" help:"Corpus inventory operations"`
	Index     IndexGroup     `cmd:"" help:"Search index document operations"`
	API       APICmd         `cmd:"" help:"Start REST API server"`
	Version   VersionCmd     `cmd:"" help:"Print version information"`
}

// InventoryGroup contains corpus inventory operations.
type InventoryGroup struct {
	Load   InventoryLoadCmd   `cmd:"" help:"Load corpus files into a SQLite database"`
	Digest InventoryDigestCmd `cmd:"" help:"Print per-version content digests"`
}

// IndexGroup contains search index operations.
type IndexGroup struct {
	Metadata IndexMetadataCmd `cmd:"" help:"Print the index document for a URN"`
}

// CorpusFlags selects the corpus sources shared by resolution commands.
type CorpusFlags struct {
	CEX           []string `name:"cex" help:"CEX corpus file (.cex or .cex.xz)" type:"existingfile"`
	TextInventory []string `name:"text-inventory" help:"CTS TextInventory XML file" type:"existingfile"`
	DB            string   `name:"db" help:"SQLite corpus database" type:"path"`
}

func (f CorpusFlags) loadCorpus(ctx context.Context) (*inventory.Corpus, error) {
	if len(f.CEX) == 0 && len(f.TextInventory) == 0 {
		if f.DB == "" {
			return nil, fmt.Errorf("no corpus source: pass --cex, --text-inventory, or --db")
		}
		db, err := inventory.OpenDB(f.DB)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return inventory.Load(ctx, db)
	}

	c := inventory.New()
	for _, path := range f.TextInventory {
		if err := c.LoadTextInventoryFile(path); err != nil {
			return nil, err
		}
	}
	for _, path := range f.CEX {
		if err := c.LoadCEXFile(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ResolverFlags configures resolution behavior. Values default from the
// environment via the same variables the config package reads.
type ResolverFlags struct {
	AllowTrailingColon bool   `env:"ALLOW_TRAILING_COLON" help:"Retain a bare trailing colon during normalization"`
	Hookset            string `env:"HOOKSET" help:"Dotted path of the hookset implementation"`
	CacheLabel         string `name:"cache-label" env:"RESOLVER_CACHE_LABEL" help:"Cache partition label"`
	CloudIndexer       bool   `name:"cloud-indexer" env:"USE_CLOUD_INDEXER" help:"Emit cloud-specific index metadata fields"`
}

func (f ResolverFlags) settings() config.Settings {
	s := config.FromEnv()
	if f.AllowTrailingColon {
		s.AllowTrailingColon = true
	}
	if f.Hookset != "" {
		s.HooksetPath = f.Hookset
	}
	if f.CacheLabel != "" {
		s.ResolverCacheLabel = f.CacheLabel
	}
	if f.CloudIndexer {
		s.UseCloudIndexer = true
	}
	return s
}

func (f ResolverFlags) newResolver(corpus *inventory.Corpus) *resolver.Resolver {
	s := f.settings()
	binding := hookset.NewBinding(s.HooksetPath, hookset.Deps{
		Corpus:       corpus,
		CloudIndexer: s.UseCloudIndexer,
	})
	return resolver.New(binding,
		resolver.WithPolicy(s.Policy()),
		resolver.WithLabel(s.ResolverCacheLabel),
		resolver.WithStore(cache.NewMemoryStore(cache.DefaultConfig())),
	)
}

// ResolveCmd resolves a single URN and prints the entity.
type ResolveCmd struct {
	CorpusFlags
	ResolverFlags
	URN  string `arg:"" help:"CTS URN to resolve"`
	JSON bool   `help:"Print the entity as JSON"`
}

func (c *ResolveCmd) Run() error {
	ctx := context.Background()
	corpus, err := c.loadCorpus(ctx)
	if err != nil {
		return err
	}

	entity, err := c.newResolver(corpus).Resolve(ctx, c.URN)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entity)
	}

	fmt.Printf("URN:   %s\n", entity.URN)
	fmt.Printf("Kind:  %s\n", entity.Kind)
	fmt.Printf("Depth: %d\n", entity.Depth)
	if entity.TextContent != "" {
		fmt.Printf("Text:\n%s\n", entity.TextContent)
	}
	if len(entity.Metadata) > 0 {
		keys := make([]string, 0, len(entity.Metadata))
		for k := range entity.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("Metadata:")
		for _, k := range keys {
			fmt.Printf("  %s: %s\n", k, entity.Metadata[k])
		}
	}
	return nil
}

// InventoryLoadCmd loads corpus files and saves them to a SQLite database.
type InventoryLoadCmd struct {
	CorpusFlags
	Out string `required:"" help:"Output SQLite database path" type:"path"`
}

func (c *InventoryLoadCmd) Run() error {
	ctx := context.Background()
	corpus, err := c.loadCorpus(ctx)
	if err != nil {
		return err
	}

	db, err := inventory.OpenDB(c.Out)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := corpus.Save(ctx, db); err != nil {
		return err
	}
	fmt.Printf("Saved %d nodes to %s\n", corpus.Len(), c.Out)
	return nil
}

// InventoryDigestCmd prints content digests for every version in the corpus.
type InventoryDigestCmd struct {
	CorpusFlags
}

func (c *InventoryDigestCmd) Run() error {
	corpus, err := c.loadCorpus(context.Background())
	if err != nil {
		return err
	}

	digests, err := corpus.AllDigests()
	if err != nil {
		return err
	}

	urns := make([]string, 0, len(digests))
	for u := range digests {
		urns = append(urns, u)
	}
	sort.Strings(urns)
	for _, u := range urns {
		fmt.Printf("%s  %s\n", digests[u], u)
	}
	return nil
}

// IndexMetadataCmd resolves a URN and prints its search index document.
type IndexMetadataCmd struct {
	CorpusFlags
	ResolverFlags
	URN string `arg:"" help:"CTS URN to build the document for"`
}

func (c *IndexMetadataCmd) Run() error {
	ctx := context.Background()
	corpus, err := c.loadCorpus(ctx)
	if err != nil {
		return err
	}

	r := c.newResolver(corpus)
	entity, err := r.Resolve(ctx, c.URN)
	if err != nil {
		return err
	}

	doc, err := r.IndexMetadata(entity)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// APICmd starts the REST API server.
type APICmd struct {
	CorpusFlags
	ResolverFlags
	Port int `env:"PORT" default:"8000" help:"Port to listen on"`
}

func (c *APICmd) Run() error {
	corpus, err := c.loadCorpus(context.Background())
	if err != nil {
		return err
	}

	server := api.NewServer(api.Config{Port: c.Port}, c.newResolver(corpus))
	return server.Start()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("ctsresolve version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ctsresolve"),
		kong.Description("CTS URN resolver - canonical text passage resolution"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
