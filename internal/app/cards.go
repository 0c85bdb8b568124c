package app

import (
	"encoding/json"
	"fmt"
	"os"

	"blanks/internal/domain"
)

// DefaultCardSet returns the built-in card pool. Rooms can run on it out of
// the box; a custom pool can be loaded from JSON instead.
func DefaultCardSet() domain.CardSet {
	return domain.CardSet{
		Prompts: []domain.PromptCard{
			{Text: "The real reason the meeting ran long: ____.", Pick: 1},
			{Text: "My therapist says I should stop bringing up ____.", Pick: 1},
			{Text: "Step 1: ____. Step 2: profit.", Pick: 1},
			{Text: "The museum's newest exhibit: a tribute to ____.", Pick: 1},
			{Text: "I could not finish the marathon because of ____.", Pick: 1},
			{Text: "Nothing ruins a road trip faster than ____.", Pick: 1},
			{Text: "Scientists have finally discovered the source of ____.", Pick: 1},
			{Text: "My autobiography will be titled \"My Life with ____\".", Pick: 1},
			{Text: "The secret ingredient in grandma's stew was ____.", Pick: 1},
			{Text: "The office party was cancelled due to ____.", Pick: 1},
			{Text: "This year's hottest wedding trend: ____.", Pick: 1},
			{Text: "I opened the mystery box and found ____.", Pick: 1},
			{Text: "The neighbors complained about ____ again.", Pick: 1},
			{Text: "My superpower is an uncanny resistance to ____.", Pick: 1},
			{Text: "The travel brochure promised ____.", Pick: 1},
			{Text: "Breaking news: local mayor blames everything on ____.", Pick: 1},
			{Text: "The wifi password at the cabin was ____.", Pick: 1},
			{Text: "Every good heist movie needs ____.", Pick: 1},
			{Text: "The fortune cookie just said \"beware of ____\".", Pick: 1},
			{Text: "I quit my job to pursue my passion for ____.", Pick: 1},
			{Text: "The haunted house was just a regular house with ____.", Pick: 1},
			{Text: "Nobody expected the talent show to feature ____.", Pick: 1},
			{Text: "First ____, then ____: the recipe for a perfect weekend.", Pick: 2},
			{Text: "The sequel pits ____ against ____.", Pick: 2},
			{Text: "My dating profile lists ____ and ____ as hobbies.", Pick: 2},
			{Text: "The startup combines ____ with ____.", Pick: 2},
			{Text: "In my dream, ____ kept turning into ____.", Pick: 2},
			{Text: "The survival kit contained only ____ and ____.", Pick: 2},
		},
		Responses: []domain.ResponseCard{
			// Everyday disasters
			{Text: "a suspiciously confident raccoon"},
			{Text: "decaf coffee served without warning"},
			{Text: "the neighbor's leaf blower at 7am"},
			{Text: "an unskippable software update"},
			{Text: "a group chat with 400 unread messages"},
			{Text: "printer ink cartridge politics"},
			{Text: "someone microwaving fish in the office"},
			{Text: "a folding chair that folds at random"},
			{Text: "an escalator that becomes stairs"},
			{Text: "the last parking spot, taken diagonally"},

			// Food
			{Text: "aggressively artisanal toast"},
			{Text: "a single enormous crouton"},
			{Text: "lukewarm gas station sushi"},
			{Text: "a cheese wheel rolling downhill"},
			{Text: "soup that is legally a beverage"},
			{Text: "an all-you-can-eat salad bar at midnight"},
			{Text: "pineapple on pizza, unapologetically"},
			{Text: "a birthday cake with someone else's name on it"},

			// Animals
			{Text: "a pigeon with strong opinions"},
			{Text: "an emotional support alpaca"},
			{Text: "seagulls organizing a union"},
			{Text: "a cat ignoring you professionally"},
			{Text: "a very slow police chase involving a tortoise"},
			{Text: "a goldfish with a long memory and a grudge"},
			{Text: "an owl that only asks rhetorical questions"},

			// Technology
			{Text: "a smart fridge that judges your choices"},
			{Text: "autocorrect at the worst possible moment"},
			{Text: "a robot vacuum plotting its escape"},
			{Text: "forty-seven open browser tabs"},
			{Text: "a phone battery at 1% for three hours"},
			{Text: "the cloud, but it's raining"},
			{Text: "a captcha that doubts your humanity"},

			// People and habits
			{Text: "a mime who won't stop explaining things"},
			{Text: "an uncle with a conspiracy corkboard"},
			{Text: "someone who claps when the plane lands"},
			{Text: "a magician who reveals all his secrets"},
			{Text: "a lifeguard who can't swim"},
			{Text: "an influencer reviewing tap water"},
			{Text: "a tour guide who is also lost"},
			{Text: "a barista who spells every name wrong on purpose"},

			// Places and things
			{Text: "a ball pit of questionable hygiene"},
			{Text: "the world's largest rubber band ball"},
			{Text: "an abandoned mini-golf course"},
			{Text: "a karaoke machine with one song"},
			{Text: "a vending machine that dispenses advice"},
			{Text: "the hotel pool, closed for mysterious reasons"},
			{Text: "a trampoline in a thunderstorm"},
			{Text: "an inflatable arm-flailing tube man"},

			// Abstract
			{Text: "the crushing weight of small talk"},
			{Text: "misplaced confidence"},
			{Text: "a plan with no step two"},
			{Text: "the wrong kind of glitter"},
			{Text: "an apology written by a lawyer"},
			{Text: "interpretive dance as a negotiation tactic"},
			{Text: "a dramatic slow-motion walk away from nothing"},
			{Text: "the concept of Mondays"},
			{Text: "a rousing speech that convinces no one"},
			{Text: "beginner's luck, revoked"},

			// Characters
			{Text: "a mime who will not stop narrating"},
			{Text: "the world's most relaxed air traffic controller"},
			{Text: "a magician who only does card tricks at funerals"},
			{Text: "an influencer reviewing tap water"},
			{Text: "a knight sworn to protect the office fridge"},
			{Text: "the understudy for a one-person show"},
			{Text: "a pirate with severe seasickness"},
			{Text: "the committee that names paint colors"},
			{Text: "a weather forecaster who refuses to commit"},
			{Text: "an archaeologist excavating the junk drawer"},

			// Player-authored cards
			{Blank: true},
			{Blank: true},
			{Blank: true},
			{Blank: true},
		},
	}
}

// LoadCardSet reads a card set from a JSON file shaped like
// {"prompts":[{"text","pick"}],"responses":[{"text"}|{"blank":true}]}.
func LoadCardSet(path string) (domain.CardSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CardSet{}, fmt.Errorf("read card set: %w", err)
	}

	var set domain.CardSet
	if err := json.Unmarshal(data, &set); err != nil {
		return domain.CardSet{}, fmt.Errorf("parse card set: %w", err)
	}

	set.Normalize()
	if err := set.Validate(); err != nil {
		return domain.CardSet{}, fmt.Errorf("card set %s: %w", path, err)
	}

	return set, nil
}
