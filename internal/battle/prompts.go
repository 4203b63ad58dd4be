package battle

// Prompt identifies the console line shown under the boards. The text
// is fixed per prompt; which prompt applies depends on the phase, whose
// turn it is and which side is viewing.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptPlaceFleet
	PromptWaitingReady
	PromptYourTurn
	PromptEnemyTurn
	PromptMiss
	PromptHit
	PromptSunk
	PromptEnemyMiss
	PromptEnemyHit
	PromptEnemySunk
	PromptVictory
	PromptDefeat
)

// promptTexts holds the console line for each prompt.
var promptTexts = map[Prompt]string{
	PromptNone:         "",
	PromptPlaceFleet:   "Position your fleet. H reshuffles, Enter confirms.",
	PromptWaitingReady: "Fleet ready. Waiting for the enemy...",
	PromptYourTurn:     "Your turn. Pick a target and fire!",
	PromptEnemyTurn:    "Hold position. The enemy is taking aim...",
	PromptMiss:         "A splash. Nothing hit.",
	PromptHit:          "Direct hit!",
	PromptSunk:         "Enemy ship destroyed!",
	PromptEnemyMiss:    "The enemy shot missed us.",
	PromptEnemyHit:     "We have been hit!",
	PromptEnemySunk:    "They sank one of our ships!",
	PromptVictory:      "The enemy fleet is destroyed. Victory!",
	PromptDefeat:       "Our fleet is lost. Defeat.",
}

// Text returns the console line for this prompt.
func (p Prompt) Text() string {
	return promptTexts[p]
}
