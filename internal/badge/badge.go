package badge

import (
	"math/rand"

	"github.com/brightclass/class-rewards-api/internal/models"
)

// Badge is a static reward badge tagged with the behavior types it suits.
type Badge struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	ImagePath     string                `json:"image_path"`
	BehaviorTypes []models.BehaviorType `json:"behavior_types"`
}

// Catalog is the fixed badge pool. Repeats are allowed; awards never
// exclude previously earned badges.
var Catalog = []Badge{
	{ID: "collaboration-star", Name: "Collaboration Star", Description: "Excellent teamwork and cooperation", ImagePath: "/images/badges/collaboration-star.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeGroupWork}},
	{ID: "leadership-crown", Name: "Leadership Crown", Description: "Outstanding leadership skills", ImagePath: "/images/badges/leadership-crown.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeGroupWork}},
	{ID: "communication-champion", Name: "Communication Champion", Description: "Clear and effective communication", ImagePath: "/images/badges/communication-champion.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeGroupWork}},
	{ID: "problem-solver", Name: "Problem Solver", Description: "Creative problem-solving abilities", ImagePath: "/images/badges/problem-solver.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeGroupWork}},
	{ID: "active-participant", Name: "Active Participant", Description: "Engaged and involved in activities", ImagePath: "/images/badges/active-participant.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeGroupWork}},
	{ID: "respectful-listener", Name: "Respectful Listener", Description: "Attentive and respectful listening", ImagePath: "/images/badges/respectful-listener.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeGroupWork}},
	{ID: "idea-sharer", Name: "Idea Sharer", Description: "Contributes valuable ideas", ImagePath: "/images/badges/idea-sharer.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeGroupWork}},
	{ID: "team-supporter", Name: "Team Supporter", Description: "Supports and encourages teammates", ImagePath: "/images/badges/team-supporter.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeGroupWork}},
	{ID: "instruction-follower", Name: "Instruction Follower", Description: "Follows directions carefully", ImagePath: "/images/badges/instruction-follower.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeIndividual}},
	{ID: "time-manager", Name: "Time Manager", Description: "Completes tasks on time", ImagePath: "/images/badges/time-manager.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeIndividual}},
	{ID: "focused-learner", Name: "Focused Learner", Description: "Maintains attention and focus", ImagePath: "/images/badges/focused-learner.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeIndividual}},
	{ID: "responsible-student", Name: "Responsible Student", Description: "Takes responsibility for learning", ImagePath: "/images/badges/responsible-student.png", BehaviorTypes: []models.BehaviorType{models.BehaviorTypeIndividual}},
}

// ForType returns the badges tagged with the given behavior type.
func ForType(behaviorType models.BehaviorType) []Badge {
	var matches []Badge
	for _, b := range Catalog {
		for _, t := range b.BehaviorTypes {
			if t == behaviorType {
				matches = append(matches, b)
				break
			}
		}
	}
	return matches
}

// PickRandom returns a uniformly random badge for the behavior type.
// The second return is false when no badge matches the type.
func PickRandom(behaviorType models.BehaviorType) (Badge, bool) {
	matches := ForType(behaviorType)
	if len(matches) == 0 {
		return Badge{}, false
	}
	return matches[rand.Intn(len(matches))], true
}

// ByID looks up a badge by identifier.
func ByID(id string) (Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
