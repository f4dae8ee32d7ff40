package services

import (
	"sort"

	"bjd/internal/models"
	"bjd/internal/providers"
	"bjd/internal/storage"
)

// demoRecords holds sample journal entries injected by the -demo flag so a
// fresh install has something to show.
var demoRecords = map[int]models.MonthRecord{
	0: {
		Story: "January 15th, the day you arrived. Seeing your face for the first time, we cried tears of pure happiness. Every tiny movement of yours fills us with joy.",
		Milestones: []models.Milestone{
			{Label: "Birth weight", Value: "3.2 kg", Completed: true},
			{Label: "Birth length", Value: "50 cm", Completed: true},
			{Label: "First cry", Value: "Loud", Completed: true},
		},
	},
	1: {
		Story: "One month old! Your eyes started tracking moving objects, especially the red ball. You still sleep most of the day, but your awake stretches keep growing.",
		Milestones: []models.Milestone{
			{Label: "Visual focus", Value: "20-30cm", Completed: true},
			{Label: "Head lifting practice", Value: "3 seconds", Completed: true},
			{Label: "Weight gain", Value: "4.5 kg", Completed: true},
		},
	},
	2: {
		Story: "Today was special: your first real smile, aimed right at us. The earlier ones may have been reflexes, but this one was an answer to the world.",
		Milestones: []models.Milestone{
			{Label: "Social smile", Value: "First smile", Completed: true},
			{Label: "Cooing sounds", Value: "Often", Completed: true},
			{Label: "Waving arms and legs", Value: "Happily", Completed: true},
		},
	},
	6: {
		Story: "Half a year! Today you sat up with just a little support. Watching you study everything around you, we can see your hunger to explore growing.",
		Milestones: []models.Milestone{
			{Label: "Supported sitting", Value: "15 seconds", Completed: true},
			{Label: "Rolling over", Value: "Confident", Completed: true},
			{Label: "First solid food", Value: "Rice cereal", Completed: true},
		},
	},
	12: {
		Story: "Dear little one, a whole year has flown by! Twelve months of surprises and wonder, every single day. Happy first birthday!",
		Milestones: []models.Milestone{
			{Label: "Standing alone", Value: "5 seconds", Completed: true},
			{Label: "Saying mama and papa", Value: "Clearly", Completed: true},
			{Label: "Teething", Value: "6 teeth", Completed: true},
			{Label: "First birthday pick", Value: "A book", Completed: true},
		},
	},
}

// SeedDemoData injects the sample records once; a guard key in the record
// store keeps repeated -demo starts idempotent.
func SeedDemoData(manager *storage.StorageManager, logger providers.Logger) error {
	if manager.IsDemoSeeded() {
		logger.Debugf(providers.TypeApp, "Demo data already initialized")
		return nil
	}

	months := make([]int, 0, len(demoRecords))
	for month := range demoRecords {
		months = append(months, month)
	}
	sort.Ints(months)

	for _, month := range months {
		rec := demoRecords[month]
		if err := manager.SaveMonthData(month, &rec); err != nil {
			return err
		}
	}

	logger.Infof(providers.TypeApp, "Demo data initialized for %d months", len(months))
	return manager.MarkDemoSeeded()
}
