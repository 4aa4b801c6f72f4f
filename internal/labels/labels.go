// Package labels resolves corpus filenames to human-readable display names.
package labels

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultLabels maps the known policy files to their display names. Files
// not listed here fall back to a name derived from the filename.
var defaultLabels = map[string]string{
	"ISP_Information_Security_Policy.pdf":               "Information Security Policy",
	"AUP_Acceptable_Use_Policy.pdf":                     "Acceptable Use Policy",
	"ICP_Information_Classification_Policy.pdf":         "Information Classification Policy",
	"AMP_Access_Management_Policy.pdf":                  "Access Management Policy",
	"Backup_and_Data_Retention_Standard.pdf":            "Backup and Data Retention Standard",
	"BCP_DRP_Business_Continuity_Disaster_Recovery.pdf": "Business Continuity and Disaster Recovery Plan",
	"Incident_Response_Plan.pdf":                        "Incident Response Plan",
	"Connected_Medical_Device_Security_Procedure.pdf":   "Connected Medical Device Security Procedure (IoMT)",
}

var titleCaser = cases.Title(language.Und)

// Resolver looks up display labels for corpus filenames. The zero value is
// not usable; construct with NewResolver.
type Resolver struct {
	labels map[string]string
}

// NewResolver returns a resolver over the built-in label map merged with
// overrides (overrides win). A nil override map is allowed.
func NewResolver(overrides map[string]string) *Resolver {
	labels := make(map[string]string, len(defaultLabels)+len(overrides))
	for k, v := range defaultLabels {
		labels[k] = v
	}
	for k, v := range overrides {
		labels[k] = v
	}
	return &Resolver{labels: labels}
}

// Resolve returns the display label for a filename. Unmapped filenames get a
// derived title: extension stripped, separators replaced with spaces,
// title-cased.
func (r *Resolver) Resolve(filename string) string {
	if label, ok := r.labels[filename]; ok {
		return label
	}
	return DeriveTitle(filename)
}

// DeriveTitle is the deterministic fallback transform for unmapped filenames.
func DeriveTitle(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return titleCaser.String(name)
}
