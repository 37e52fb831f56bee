package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed data/parts_database.json
var defaultDatabase []byte

const (
	maxSearchResults = 10

	safetyWarning = "Always unplug the appliance and turn off power at the circuit breaker before beginning any repair."
)

var fallbackInstallationSteps = []string{
	"Refer to your owner's manual for specific instructions",
	"Ensure power is disconnected before beginning installation",
	"Follow all manufacturer safety guidelines",
}

var genericTroubleshootingTips = []string{
	"Check if the appliance is properly plugged in",
	"Ensure circuit breaker hasn't tripped",
	"Verify water supply (if applicable)",
	"Check for error codes on display",
	"Consult your owner's manual",
}

// Store is the read-only parts database. Loaded once at startup; safe for
// concurrent readers.
type Store struct {
	db     *Database
	logger *logrus.Logger
}

// NewStore loads the database from path, falling back to the embedded
// fixture when the file is absent.
func NewStore(logger *logrus.Logger, path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read parts database: %w", err)
		}
		logger.WithField("path", path).Info("parts database file not found, using embedded data")
		raw = defaultDatabase
	}
	return NewStoreFromBytes(logger, raw)
}

func NewStoreFromBytes(logger *logrus.Logger, raw []byte) (*Store, error) {
	var db Database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("failed to parse parts database: %w", err)
	}
	if len(db.Parts) == 0 {
		return nil, fmt.Errorf("parts database contains no parts")
	}
	return &Store{db: &db, logger: logger}, nil
}

// SearchParts matches query against part numbers, names, descriptions and
// compatible models. Parts with implausible identifiers or prices are
// dropped rather than surfaced.
func (s *Store) SearchParts(query, applianceType string) SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return SearchResult{Found: false, Results: []PartSummary{}, Message: "Search query cannot be empty"}
	}

	var results []PartSummary
	for _, part := range s.db.Parts {
		if applianceType != "" && applianceType != "both" &&
			!strings.EqualFold(part.ApplianceType, applianceType) {
			continue
		}
		if !matchesQuery(part, query) {
			continue
		}
		if !ValidPartNumber(part.PartNumber) {
			s.logger.WithField("part_number", part.PartNumber).Warn("skipping part with invalid part number")
			continue
		}
		if !ValidPrice(part.Price) {
			s.logger.WithFields(logrus.Fields{
				"part_number": part.PartNumber,
				"price":       part.Price,
			}).Warn("skipping part with invalid price")
			continue
		}
		results = append(results, PartSummary{
			PartNumber:    part.PartNumber,
			Name:          part.Name,
			Description:   part.Description,
			Price:         part.Price,
			ApplianceType: part.ApplianceType,
			ImageURL:      part.ImageURL,
			InStock:       part.InStock,
		})
	}

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	if results == nil {
		results = []PartSummary{}
	}
	return SearchResult{Found: len(results) > 0, Count: len(results), Results: results}
}

func matchesQuery(part Part, query string) bool {
	if strings.Contains(strings.ToLower(part.PartNumber), query) ||
		strings.Contains(strings.ToLower(part.Name), query) ||
		strings.Contains(strings.ToLower(part.Description), query) {
		return true
	}
	for _, model := range part.CompatibleModels {
		if strings.Contains(strings.ToLower(model), query) {
			return true
		}
	}
	return false
}

// CheckCompatibility reports whether a part fits a model. When it does
// not, up to five known-compatible models are included as alternatives.
func (s *Store) CheckCompatibility(partNumber, modelNumber string) CompatibilityResult {
	if partNumber == "" || modelNumber == "" {
		return CompatibilityResult{
			Compatible:  false,
			PartNumber:  partNumber,
			ModelNumber: modelNumber,
			Reason:      "Both part number and model number are required",
		}
	}
	if !ValidPartNumber(partNumber) {
		return CompatibilityResult{
			Compatible:  false,
			PartNumber:  partNumber,
			ModelNumber: modelNumber,
			Reason:      "Invalid part number format",
		}
	}

	part := s.findPart(partNumber)
	if part == nil {
		return CompatibilityResult{
			Compatible:  false,
			PartNumber:  partNumber,
			ModelNumber: modelNumber,
			Reason:      "Part not found",
		}
	}

	for _, model := range part.CompatibleModels {
		if strings.EqualFold(model, modelNumber) {
			return CompatibilityResult{
				Compatible:  true,
				PartNumber:  partNumber,
				ModelNumber: modelNumber,
				PartName:    part.Name,
				Reason:      "Compatible with your model",
			}
		}
	}

	alternatives := part.CompatibleModels
	if len(alternatives) > 5 {
		alternatives = alternatives[:5]
	}
	return CompatibilityResult{
		Compatible:       false,
		PartNumber:       partNumber,
		ModelNumber:      modelNumber,
		PartName:         part.Name,
		CompatibleModels: alternatives,
		Reason:           "Not compatible with your model",
	}
}

// InstallationGuide returns the steps for a part, with dangerous steps
// filtered out and the safety warning always attached.
func (s *Store) InstallationGuide(partNumber string) InstallationResult {
	if partNumber == "" {
		return InstallationResult{Found: false, PartNumber: partNumber, Error: "Part number is required"}
	}
	part := s.findPart(partNumber)
	if part == nil {
		return InstallationResult{Found: false, PartNumber: partNumber, Error: "Part not found"}
	}

	steps := part.InstallationGuide
	if len(steps) == 0 {
		steps = s.db.DefaultGuides.Installation[part.Category]
	}
	if len(steps) == 0 {
		steps = fallbackInstallationSteps
	}

	safe := make([]string, 0, len(steps))
	for _, step := range steps {
		if !safeStep(step) {
			s.logger.WithField("step", step).Warn("skipping potentially dangerous installation step")
			continue
		}
		safe = append(safe, step)
	}

	difficulty := part.InstallationDifficulty
	if difficulty == "" {
		difficulty = "Medium"
	}
	timeEstimate := part.InstallationTime
	if timeEstimate == "" {
		timeEstimate = "15-30 minutes"
	}
	tools := part.ToolsRequired
	if len(tools) == 0 {
		tools = []string{"Screwdriver", "Pliers"}
	}

	return InstallationResult{
		Found:         true,
		PartNumber:    partNumber,
		PartName:      part.Name,
		Difficulty:    difficulty,
		TimeEstimate:  timeEstimate,
		ToolsRequired: tools,
		Steps:         safe,
		SafetyWarning: safetyWarning,
		VideoURL:      part.InstallationVideoURL,
	}
}

// TroubleshootingGuide returns the best keyword match for an issue, or
// generic tips when nothing matches.
func (s *Store) TroubleshootingGuide(issue, applianceType string) TroubleshootingResult {
	if issue == "" || applianceType == "" {
		return TroubleshootingResult{
			Found:         false,
			Issue:         issue,
			ApplianceType: applianceType,
			Error:         "Both issue and appliance type are required",
		}
	}

	issueLower := strings.ToLower(issue)
	guides := s.db.TroubleshootingGuides[strings.ToLower(applianceType)]

	type scored struct {
		guide TroubleshootingGuide
		hits  int
	}
	var relevant []scored
	for _, guide := range guides {
		hits := 0
		for _, keyword := range guide.Keywords {
			if strings.Contains(issueLower, strings.ToLower(keyword)) {
				hits++
			}
		}
		if hits > 0 {
			relevant = append(relevant, scored{guide: guide, hits: hits})
		}
	}

	if len(relevant) == 0 {
		return TroubleshootingResult{
			Found:         false,
			Issue:         issue,
			ApplianceType: applianceType,
			GeneralTips:   genericTroubleshootingTips,
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].hits > relevant[j].hits
	})
	best := relevant[0].guide

	professionalHelp := best.ProfessionalHelp
	if professionalHelp == "" {
		professionalHelp = "If problem persists after trying these solutions"
	}
	difficulty := best.Difficulty
	if difficulty == "" {
		difficulty = "Medium"
	}

	return TroubleshootingResult{
		Found:            true,
		Issue:            best.Issue,
		ApplianceType:    applianceType,
		PossibleCauses:   best.Causes,
		Solutions:        best.Solutions,
		RelatedParts:     best.RelatedParts,
		Difficulty:       difficulty,
		ProfessionalHelp: professionalHelp,
	}
}

// PartDetails returns everything known about one part.
func (s *Store) PartDetails(partNumber string) DetailsResult {
	if partNumber == "" {
		return DetailsResult{Found: false, PartNumber: partNumber, Error: "Part number is required"}
	}
	part := s.findPart(partNumber)
	if part == nil {
		return DetailsResult{
			Found:      false,
			PartNumber: partNumber,
			Error: fmt.Sprintf("Part %s not found in our database. Try searching by name or model number.",
				partNumber),
		}
	}

	warranty := part.Warranty
	if warranty == "" {
		warranty = "90 days"
	}

	return DetailsResult{
		Found:            true,
		PartNumber:       part.PartNumber,
		Name:             part.Name,
		Description:      part.Description,
		Category:         part.Category,
		Manufacturer:     part.Manufacturer,
		Price:            part.Price,
		InStock:          part.InStock,
		ApplianceType:    part.ApplianceType,
		CompatibleModels: part.CompatibleModels,
		Specifications:   part.Specifications,
		Warranty:         warranty,
		OEMPartNumbers:   part.OEMPartNumbers,
		ImageURL:         part.ImageURL,
		Rating:           part.Rating,
		ReviewCount:      part.ReviewCount,
	}
}

func (s *Store) findPart(partNumber string) *Part {
	for i := range s.db.Parts {
		if strings.EqualFold(s.db.Parts[i].PartNumber, partNumber) {
			return &s.db.Parts[i]
		}
	}
	return nil
}
