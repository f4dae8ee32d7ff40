package models

// MonthConfig is the static, non-editable configuration for one month page.
// Milestone labels are fixed here; their values and completion state are
// what the user edits.
type MonthConfig struct {
	Month             int         `json:"month"`
	Title             string      `json:"title"`
	DefaultStory      string      `json:"defaultStory"`
	DefaultMilestones []Milestone `json:"defaultMilestones"`
}

// MonthsConfig lists the 13 month slots in display order.
var MonthsConfig = [13]MonthConfig{
	{
		Month:        0,
		Title:        "Newborn Joy",
		DefaultStory: "You arrived in this world, announcing yourself with a loud, strong cry...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Head circumference", Value: "XX cm"},
			{Label: "First cry", Value: "Loud and strong", Completed: true},
		},
	},
	{
		Month:        1,
		Title:        "First Glimpse",
		DefaultStory: "One month old, and already so curious about the world around you...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "First smile"},
			{Label: "Head lifting practice"},
		},
	},
	{
		Month:        2,
		Title:        "Sweet Interactions",
		DefaultStory: "Two months old, and your smiles come more and more often...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Social smile"},
			{Label: "Tracking objects"},
		},
	},
	{
		Month:        3,
		Title:        "Full of Energy",
		DefaultStory: "Three months old, and livelier every single day...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Steady head control"},
			{Label: "Babbling"},
		},
	},
	{
		Month:        4,
		Title:        "Exploring Hands",
		DefaultStory: "Four months old, exploring the world with your little hands...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Grasping toys"},
			{Label: "Trying to roll over"},
		},
	},
	{
		Month:        5,
		Title:        "Curious Baby",
		DefaultStory: "Five months old, and curious about absolutely everything...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Rolling over"},
			{Label: "Recognizing family"},
		},
	},
	{
		Month:        6,
		Title:        "Half Year Milestone",
		DefaultStory: "Half a year already! What an important milestone...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Sitting up"},
			{Label: "First solid food"},
		},
	},
	{
		Month:        7,
		Title:        "Little Adventurer",
		DefaultStory: "Seven months old, off exploring every corner you can reach...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Trying to crawl"},
			{Label: "First tooth"},
		},
	},
	{
		Month:        8,
		Title:        "Crawling Expert",
		DefaultStory: "Eight months old, crawling faster every day...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Confident crawling"},
			{Label: "Standing with support"},
		},
	},
	{
		Month:        9,
		Title:        "Standing Moment",
		DefaultStory: "Nine months old, trying so hard to stand up...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Steady supported standing"},
			{Label: "Saying mama and papa"},
		},
	},
	{
		Month:        10,
		Title:        "Walking Time",
		DefaultStory: "Ten months old, learning how to walk...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Cruising along furniture"},
			{Label: "First simple words"},
		},
	},
	{
		Month:        11,
		Title:        "Almost One",
		DefaultStory: "Eleven months old, with your first birthday just around the corner...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "Walking alone"},
			{Label: "Understanding instructions"},
		},
	},
	{
		Month:        12,
		Title:        "First Birthday",
		DefaultStory: "One whole year! Twelve months full of love and growth...",
		DefaultMilestones: []Milestone{
			{Label: "Length", Value: "XX cm"},
			{Label: "Weight", Value: "XX kg"},
			{Label: "First step"},
			{Label: "First word"},
		},
	},
}

// GetMonthConfig returns the static configuration for a month slot, or nil
// when the month is out of range.
func GetMonthConfig(month int) *MonthConfig {
	if month < 0 || month > 12 {
		return nil
	}
	c := MonthsConfig[month]
	c.DefaultMilestones = append([]Milestone(nil), c.DefaultMilestones...)
	return &c
}

// DefaultMonthRecord synthesizes the default record for a month slot, or nil
// when the month is out of range. The result carries Customized=false and is
// never written to storage.
func DefaultMonthRecord(month int) *MonthRecord {
	c := GetMonthConfig(month)
	if c == nil {
		return nil
	}
	return &MonthRecord{
		Month:      c.Month,
		Title:      c.Title,
		Story:      c.DefaultStory,
		Milestones: c.DefaultMilestones,
		Photos:     [][]byte{},
	}
}
