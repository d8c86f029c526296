package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/chase-cli/internal/model"
	"github.com/sells-group/chase-cli/internal/schema"
)

// Reference holds the immutable lookup tables the pipeline is
// configured with: header synonyms, agent name map, team grouping,
// disposition rule parameters, and the cross-source contradiction
// table. Constructed once at pipeline start and passed explicitly into
// each component.
type Reference struct {
	Synonyms schema.SynonymTable `yaml:"synonyms"`

	// NameMap maps normalized agent login → display name.
	NameMap map[string]string `yaml:"name_map"`

	// TeamGroup names the non-default group and its members; every
	// other agent falls into DefaultGroup.
	TeamGroup    string   `yaml:"team_group"`
	TeamMembers  []string `yaml:"team_members"`
	DefaultGroup string   `yaml:"default_group"`

	// PendingShipment is the disposition that requires an upload.
	PendingShipment string `yaml:"pending_shipment"`

	// Stalled dispositions older than StalledAfterDays are anomalous.
	Stalled          []string `yaml:"stalled"`
	StalledAfterDays int      `yaml:"stalled_after_days"`

	// Contradictions are (source A disposition, source B disposition)
	// pairs that cannot both be true for a matched case.
	Contradictions [][2]string `yaml:"contradictions"`
}

// LoadReference returns the compiled-in reference tables, overridden by
// the YAML file at path when path is non-empty.
func LoadReference(path string) (*Reference, error) {
	ref := DefaultReference()
	if path == "" {
		return ref, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read reference file %s", path)
	}
	if err := yaml.Unmarshal(data, ref); err != nil {
		return nil, eris.Wrapf(err, "config: parse reference file %s", path)
	}
	return ref, nil
}

// DefaultReference returns the compiled-in lookup tables.
func DefaultReference() *Reference {
	return &Reference{
		Synonyms: schema.SynonymTable{
			{Field: model.FieldCreatedTime, Synonyms: []string{
				"created_time", "created time", "creation time", "created", "lead created", "request created",
			}},
			{Field: model.FieldAssignedDate, Synonyms: []string{
				"assign_date", "assigned date", "assign time", "assigned time", "assigned on",
			}},
			{Field: model.FieldApprovalDate, Synonyms: []string{
				"approval_date", "approval date", "approved date", "approval time", "approved on",
			}},
			{Field: model.FieldDenialDate, Synonyms: []string{
				"denial_date", "denial date", "denied date", "denied on",
			}},
			{Field: model.FieldCompletionDate, Synonyms: []string{
				"completion_date", "completion date", "completed date", "completion time", "closed date", "completed on",
			}},
			{Field: model.FieldUploadDate, Synonyms: []string{
				"uploaded_date", "upload date", "uploaded date", "uploaded on",
			}},
			{Field: model.FieldSaleDate, Synonyms: []string{
				"date of sale", "sale date", "sold on",
			}},
			{Field: model.FieldModifiedTime, Synonyms: []string{
				"modified time", "modified_time", "last modified",
			}},
			{Field: model.FieldAgent, Synonyms: []string{
				"assigned to chase", "assigned_to_chase", "assigned to", "assigned user (chase)", "assigned chaser", "chaser",
			}},
			{Field: model.FieldClient, Synonyms: []string{
				"client", "client name",
			}},
			{Field: model.FieldProduct, Synonyms: []string{
				"product", "product name", "brace type",
			}},
			{Field: model.FieldCaseID, Synonyms: []string{
				"mcn", "case number", "case id", "medicare claim number",
			}},
			{Field: model.FieldDisposition, Synonyms: []string{
				"chasing disposition", "disposition", "status", "closing status",
			}},
			{Field: model.FieldComments, Synonyms: []string{
				"comments", "notes", "dr info extra comments",
			}},
		},
		NameMap: map[string]string{
			"a.williams":        "Alfred Williams",
			"david.smith":       "David Smith",
			"jimmy.daves":       "Grayson Saint",
			"e.moore":           "Eddie Moore",
			"aurora.stevens":    "Aurora Stevens",
			"grayson.saint":     "Grayson Saint",
			"emma.wilson":       "Emma Wilson",
			"scarlett.mitchell": "Scarlett Mitchell",
			"lucas.diago":       "Lucas Diago",
			"mia.alaxendar":     "Mia Alaxendar",
			"ivy.brooks":        "Ivy Brooks",
			"timothy.williams":  "Timothy Williams",
			"sarah.adams":       "Sarah Adams",
			"sara.adams":        "Sarah Adams",
			"samy.youssef":      "Samy Youssef",
			"candy.johns":       "Candy Johns",
			"heather.robertson": "Heather Robertson",
			"a.cabello":         "Andrew Cabello",
			"alia.scott":        "Alia Scott",
			"sandra.sebastian":  "Sandra Sebastian",
			"kayla.miller":      "Kayla Miller",
		},
		TeamGroup: "Samy Chasers",
		TeamMembers: []string{
			"Emma Wilson", "Scarlett Mitchell", "Lucas Diago", "Mia Alaxendar",
			"Candy Johns", "Sandra Sebastian", "Alia Scott",
			"Ivy Brooks", "Heather Robertson", "Samy Youssef",
			"Sarah Adams", "Timothy Williams",
		},
		DefaultGroup: "Andrew Chasers",

		PendingShipment:  "pending shipment",
		Stalled:          []string{"pending fax", "pending doctor call"},
		StalledAfterDays: 30,

		Contradictions: [][2]string{
			{"Dead Lead", "Doctor Chase"},
			{"Denied", "Doctor Chase"},
		},
	}
}
