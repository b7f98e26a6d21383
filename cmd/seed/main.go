package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"lunalog/internal/catalog"
	"lunalog/internal/config"
	"lunalog/internal/model"
	"lunalog/internal/repository"
	"lunalog/internal/scoring"
)

// sampleEntry is one historical entry rated on the old five-point scale
type sampleEntry struct {
	Date     string
	Ratings  [10]int
	Response string
}

var samples = []sampleEntry{
	{
		Date:     "2024-10-10",
		Ratings:  [10]int{5, 4, 5, 5, 4, 5, 4, 5, 5, 4},
		Response: "Had an incredibly productive day at work. Finished the big project ahead of schedule and celebrated with a great dinner with friends. Feeling energized and happy about my progress.",
	},
	{
		Date:     "2024-10-11",
		Ratings:  [10]int{3, 2, 4, 3, 2, 3, 2, 3, 4, 3},
		Response: "The new project deadlines are really stressing me out. Spent 12 hours straight coding and forgot to take a proper break. I feel mentally drained and anxious about the upcoming review.",
	},
	{
		Date:     "2024-10-12",
		Ratings:  [10]int{1, 1, 2, 1, 1, 3, 2, 2, 1, 1},
		Response: "Slept badly again, maybe only 4 hours. Couldn't focus on anything today. Skipped the gym and just watched TV. Need to figure out a better sleep schedule and stop drinking coffee late.",
	},
	{
		Date:     "2024-10-13",
		Ratings:  [10]int{4, 5, 3, 4, 5, 4, 5, 4, 3, 5},
		Response: "Spent the entire afternoon hiking with my family, which was wonderful. Got a lot of exercise and great conversation. My creative scores were lower, but my social battery is fully charged.",
	},
	{
		Date:     "2024-10-14",
		Ratings:  [10]int{3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		Response: "Just a standard Monday. Got through my emails, went grocery shopping, and cooked dinner. Nothing exceptional happened, good or bad, but I feel a little isolated after the busy weekend.",
	},
}

// toEntry rescales the five-point ratings onto the 1..10 scale and scores them
func toEntry(s sampleEntry, engine *scoring.Engine) (*model.JournalEntry, error) {
	responses := make([]int, len(s.Ratings))
	dict := make(map[string]int, len(s.Ratings))
	for i, r := range s.Ratings {
		responses[i] = r * 2
		dict[model.QuestionKey(i)] = responses[i]
	}
	score, err := engine.Score(responses)
	if err != nil {
		return nil, err
	}
	return &model.JournalEntry{
		EntryDate:    model.ParseEntryDate(s.Date),
		MoodScore:    score,
		QuestionDict: dict,
		Insights:     []string{s.Response},
		SubmissionID: "seed-" + s.Date,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	questions, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	engine, err := scoring.NewEngineFromCatalog(questions)
	if err != nil {
		logger.Fatal("invalid catalog", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewEntryRepo(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	logger.Info("seeding sample entries", zap.String("db", cfg.MongoDB), zap.Int("count", len(samples)))
	for _, s := range samples {
		entry, err := toEntry(s, engine)
		if err != nil {
			logger.Fatal("invalid sample", zap.String("date", s.Date), zap.Error(err))
		}
		id, err := repo.Create(ctx, entry)
		if err != nil {
			logger.Fatal("failed to insert sample", zap.String("date", s.Date), zap.Error(err))
		}
		logger.Info("sample stored", zap.String("date", s.Date), zap.Int64("entry_id", id), zap.Float64("mood_score", entry.MoodScore))
	}
}
