package mockdata

// studentNames bounds the largest roster the builder can produce.
var studentNames = []string{
	"Emma Johnson", "Liam Smith", "Olivia Brown", "Noah Davis",
	"Ava Wilson", "Ethan Moore", "Sophia Taylor", "Mason Anderson",
	"Isabella Thomas", "Lucas Jackson", "Mia White", "Logan Harris",
	"Charlotte Martin", "Elijah Thompson", "Amelia Garcia", "James Martinez",
	"Harper Robinson", "Benjamin Clark", "Evelyn Rodriguez", "Alexander Lewis",
	"Abigail Lee", "Henry Walker", "Emily Hall", "Sebastian Allen",
}

var assignmentTitles = []string{
	"Personal Narrative Essay",
	"Argumentative Essay: School Uniforms",
	"Literary Analysis: The Great Gatsby",
	"Research Paper: Climate Change",
	"Compare and Contrast Essay",
	"Persuasive Letter to the Editor",
	"Book Review: To Kill a Mockingbird",
	"Expository Essay: Renewable Energy",
	"Rhetorical Analysis: MLK Speech",
	"Reflective Journal Entry",
	"Cause and Effect Essay",
	"Poetry Analysis: Robert Frost",
}

var profileStrengths = []string{"Vocabulary", "Sentence variety", "Clarity", "Argument structure"}

var profileWeaknesses = []string{"Punctuation", "Passive voice", "Conciseness", "Transitions"}

var analyzerVersions = map[string]string{
	"anomaly":     "0.4.2",
	"formality":   "1.3.0",
	"grammar":     "2.1.4",
	"readability": "1.0.7",
	"sentiment":   "1.2.1",
	"tone":        "0.9.3",
}
