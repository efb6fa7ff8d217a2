package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help for the setup fields and for each step type.
var Texts = map[string]HelpText{
	"patient": {
		Title:       "PATIENT",
		Description: "Name or record number shown on the chart.",
		Details:     "Optional. The chart itself is identified by a generated ID.",
	},
	"modes": {
		Title:       "CHARTING MODES",
		Description: "Measurements collected in this pass.",
		Details: `PD  - probing depth, six sites per tooth
RE  - recession, negative when the margin is coronal to the CEJ
BOP - bleeding on probing, one step per surface
MGJ - mucogingival junction, buccal surface only`,
	},
	"missing": {
		Title:       "MISSING TEETH",
		Description: "FDI numbers to skip, separated by commas.",
		Details:     "Example: 18, 28, 38, 48. Missing teeth produce no steps and are left out of the summary.",
	},
	"segments": {
		Title:       "SEGMENT ORDER",
		Description: "Traversal path through the quadrant surfaces.",
		Details: `Each entry is <segment>:<LR|RL>, e.g. q1b:LR, q2b:LR, q2l:RL.
Segments left out are not charted.`,
	},
	"pd": {
		Title:       "PROBING DEPTH",
		Description: "Type the depth in millimetres.",
		Details:     "Single digits commit at once. 1 waits for a second digit, Enter commits it alone. Expected range 0..15.",
	},
	"re": {
		Title:       "RECESSION",
		Description: "Type the recession in millimetres.",
		Details:     "Press - first for a negative value. Expected range -10..10.",
	},
	"bop": {
		Title:       "BLEEDING ON PROBING",
		Description: "Toggle the bleeding sites, then press Enter.",
		Details:     "Keys 1-3 follow the on-screen order of the three sites. Enter with nothing selected records no bleeding.",
	},
	"mgj": {
		Title:       "MUCOGINGIVAL JUNCTION",
		Description: "Distance from the gingival margin to the MGJ.",
		Details:     "One value per buccal surface. Expected range 0..15.",
	},
}
