package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brewgraph/internal/beer"
	"brewgraph/internal/catalog"
	"brewgraph/internal/graph"
	"brewgraph/pkg/config"
	apperrors "brewgraph/pkg/errors"
	"brewgraph/pkg/logger"
)

// demo users seeded alongside the catalog when -seed-demo is set
var demoUsers = []graph.User{
	{ID: 220987852, Username: "ovesco", FirstName: "guillaume", LanguageCode: "fr"},
	{ID: 136451861, Username: "thrudhvangr", FirstName: "christopher", LanguageCode: "fr"},
	{ID: 136451862, Username: "NukedFace", FirstName: "marcus", LanguageCode: "fr"},
	{ID: 136451863, Username: "lauralol", FirstName: "laura", LanguageCode: "fr"},
	{ID: 136451864, Username: "Saumonlecitron", FirstName: "jean-michel", LanguageCode: "fr"},
}

// how many random beer likes each demo user gets
var demoLikeCounts = []int{40, 10, 25, 15, 0}

func main() {
	csvPath := flag.String("csv", "", "Path to the beers CSV (id,name,brewery,type,origin); defaults to CATALOG_CSV_PATH")
	reset := flag.Bool("reset", false, "Delete all existing catalog and graph data first")
	seedDemo := flag.Bool("seed-demo", false, "Seed demo users with randomized likes")
	skipConfirm := flag.Bool("y", false, "Skip confirmation prompt for -reset")
	flag.Parse()

	// Initialize logger
	if err := logger.Init(os.Getenv("ENV"), "loader"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting catalog load...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *csvPath == "" {
		*csvPath = cfg.CatalogCSVPath
	}

	if *reset && !*skipConfirm {
		log.Warn("WARNING: -reset will DELETE ALL DATA from the catalog and the graph!")
		fmt.Print("Are you sure you want to continue? (yes/no): ")
		var response string
		fmt.Scanln(&response)
		if response != "yes" && response != "y" {
			log.Info("Aborted.")
			os.Exit(0)
		}
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity",
			zap.Error(apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)))
	}

	catalogStore, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		log.Fatal("Failed to open catalog store", zap.Error(err))
	}
	defer catalogStore.Close()

	repo := graph.NewRepository(driver)
	svc := beer.NewService(repo)

	if *reset {
		log.Info("Clearing catalog and graph...")
		if err := catalogStore.DeleteAll(); err != nil {
			log.Fatal("Failed to clear catalog", zap.Error(err))
		}
		if err := repo.ResetAll(ctx); err != nil {
			log.Fatal("Failed to clear graph", zap.Error(err))
		}
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure graph schema", zap.Error(err))
	}

	// Parse the CSV and fill the document store
	log.Info("Parsing CSV", zap.String("path", *csvPath))
	beers, err := parseBeers(*csvPath)
	if err != nil {
		log.Fatal("Failed to parse beers CSV", zap.Error(err))
	}
	log.Info("Parsed beers", zap.Int("count", len(beers)))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(8)
	for _, b := range beers {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return catalogStore.Insert(b)
		})
	}
	if err := group.Wait(); err != nil {
		log.Fatal("Failed to write beers to catalog", zap.Error(err))
	}

	// Load them back so the graph sees exactly what the catalog holds
	loaded, err := catalogStore.All()
	if err != nil {
		log.Fatal("Failed to read catalog back", zap.Error(err))
	}

	log.Info("Writing catalog to graph...")
	summary, err := svc.LoadCatalog(ctx, loaded)
	if err != nil {
		log.Fatal("Failed to load catalog into graph", zap.Error(err))
	}

	if *seedDemo {
		log.Info("Seeding demo users and likes...")
		seed := time.Now().UnixNano()
		if cfg.IsDevelopment() {
			// Reproducible demo data between local reloads
			seed = 1
		}
		if err := seedDemoData(ctx, svc, loaded, summary, rand.New(rand.NewSource(seed))); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	log.Info("Done with importation",
		zap.Int("beers", summary.Beers),
		zap.Int("breweries", summary.Breweries),
		zap.Int("styles", summary.Styles),
	)
}

// parseBeers reads (id, name, brewery, type, origin) rows
func parseBeers(path string) ([]catalog.Beer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 5

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	beers := make([]catalog.Beer, 0, len(rows))
	for _, row := range rows {
		beers = append(beers, catalog.Beer{
			ID:      row[0],
			Name:    row[1],
			Brewery: row[2],
			Type:    row[3],
			Origin:  row[4],
		})
	}
	return beers, nil
}

// seedDemoData gives each demo user a batch of random ratings over the
// loaded beers, plus a few brewery and style likes, so recommendations have
// something to traverse.
func seedDemoData(ctx context.Context, svc *beer.Service, beers []catalog.Beer, summary *beer.LoadSummary, rng *rand.Rand) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)

	for i, user := range demoUsers {
		count := demoLikeCounts[i]
		if count > len(beers) {
			count = len(beers)
		}

		shuffled := make([]catalog.Beer, len(beers))
		copy(shuffled, beers)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		picks := shuffled[:count]
		rank := func() int { return rng.Intn(5) + 1 }
		breweryID := int64(-1)
		styleID := int64(-1)
		if summary.Breweries > 0 {
			breweryID = rng.Int63n(int64(summary.Breweries))
		}
		if summary.Styles > 0 {
			styleID = rng.Int63n(int64(summary.Styles))
		}
		breweryRank, styleRank := rank(), rank()
		likes := make([]int, len(picks))
		for j := range likes {
			likes[j] = rank()
		}

		group.Go(func() error {
			for j, pick := range picks {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				err := svc.RecordRating(groupCtx, user, pick.ID, beer.TargetBeer, likes[j], time.Now())
				if err != nil {
					return err
				}
			}
			if breweryID >= 0 {
				err := svc.RecordRating(groupCtx, user, fmt.Sprintf("%d", breweryID), beer.TargetBrewery, breweryRank, time.Now())
				if err != nil {
					return err
				}
			}
			if styleID >= 0 {
				err := svc.RecordRating(groupCtx, user, fmt.Sprintf("%d", styleID), beer.TargetStyle, styleRank, time.Now())
				if err != nil {
					return err
				}
			}
			return nil
		})
	}

	return group.Wait()
}
