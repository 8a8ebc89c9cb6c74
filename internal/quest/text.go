package quest

import (
	"fmt"
	"strings"
)

// pluralize applies basic English pluralization to a creature or item name.
func pluralize(name string) string {
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return name + "es"
	case strings.HasSuffix(lower, "y") && len(name) > 1 && !isVowel(lower[len(lower)-2]):
		return name[:len(name)-1] + "ies"
	default:
		return name + "s"
	}
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// killQuestText builds the title and description for a kill quest. Missing
// data degrades to a generic task rather than failing.
func killQuestText(o *KillObjective) (string, string) {
	if o == nil || o.TargetNamePlural == "" {
		return "Task", "Deal with a local problem."
	}
	title := fmt.Sprintf("Cull the %s", o.TargetNamePlural)
	desc := fmt.Sprintf("Slay %d %s.", o.Required, o.TargetNamePlural)
	if o.LocationHint != "" {
		desc += fmt.Sprintf(" They have been sighted near %s.", o.LocationHint)
	}
	return title, desc
}

// fetchQuestText builds the title and description for a fetch quest.
func fetchQuestText(o *FetchObjective) (string, string) {
	if o == nil || o.ItemName == "" {
		return "Task", "Gather some supplies."
	}
	plural := o.ItemNamePlural
	if plural == "" {
		plural = pluralize(o.ItemName)
	}
	title := fmt.Sprintf("Gather %d %s", o.Required, plural)
	desc := fmt.Sprintf("Bring back %d %s.", o.Required, plural)
	if o.SourceEnemyNamePlural != "" {
		desc += fmt.Sprintf(" %s are known to carry them.", o.SourceEnemyNamePlural)
	}
	if o.LocationHint != "" {
		desc += fmt.Sprintf(" Try looking around %s.", o.LocationHint)
	}
	return title, desc
}

// deliverQuestText builds the title and description for a delivery quest.
func deliverQuestText(o *DeliverObjective) (string, string) {
	if o == nil || o.RecipientName == "" {
		return "Task", "Run an errand."
	}
	title := fmt.Sprintf("Delivery for %s", o.RecipientName)
	desc := fmt.Sprintf("Deliver the %s to %s.", o.ItemName, o.RecipientName)
	if o.RecipientLocation != "" {
		desc += fmt.Sprintf(" They can be found at %s.", o.RecipientLocation)
	}
	return title, desc
}
