package catalog

type Part struct {
	PartNumber             string            `json:"part_number"`
	Name                   string            `json:"name"`
	Description            string            `json:"description"`
	Category               string            `json:"category"`
	Manufacturer           string            `json:"manufacturer"`
	Price                  float64           `json:"price"`
	ApplianceType          string            `json:"appliance_type"`
	InStock                bool              `json:"in_stock"`
	CompatibleModels       []string          `json:"compatible_models"`
	Specifications         map[string]string `json:"specifications,omitempty"`
	Warranty               string            `json:"warranty,omitempty"`
	OEMPartNumbers         []string          `json:"oem_part_numbers,omitempty"`
	ImageURL               string            `json:"image_url,omitempty"`
	InstallationGuide      []string          `json:"installation_guide,omitempty"`
	InstallationDifficulty string            `json:"installation_difficulty,omitempty"`
	InstallationTime       string            `json:"installation_time,omitempty"`
	ToolsRequired          []string          `json:"tools_required,omitempty"`
	InstallationVideoURL   string            `json:"installation_video_url,omitempty"`
	Rating                 float64           `json:"rating,omitempty"`
	ReviewCount            int               `json:"review_count,omitempty"`
}

type TroubleshootingGuide struct {
	Issue            string   `json:"issue"`
	Keywords         []string `json:"keywords"`
	Causes           []string `json:"causes"`
	Solutions        []string `json:"solutions"`
	RelatedParts     []string `json:"related_parts,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	ProfessionalHelp string   `json:"professional_help,omitempty"`
}

type Database struct {
	Parts         []Part `json:"parts"`
	DefaultGuides struct {
		Installation map[string][]string `json:"installation"`
	} `json:"default_guides"`
	TroubleshootingGuides map[string][]TroubleshootingGuide `json:"troubleshooting_guides"`
}

type PartSummary struct {
	PartNumber    string  `json:"part_number"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	ApplianceType string  `json:"appliance_type"`
	ImageURL      string  `json:"image_url"`
	InStock       bool    `json:"in_stock"`
}

type SearchResult struct {
	Found   bool          `json:"found"`
	Count   int           `json:"count"`
	Results []PartSummary `json:"results"`
	Message string        `json:"message,omitempty"`
}

type CompatibilityResult struct {
	Compatible       bool     `json:"compatible"`
	PartNumber       string   `json:"part_number"`
	ModelNumber      string   `json:"model_number"`
	PartName         string   `json:"part_name,omitempty"`
	CompatibleModels []string `json:"compatible_models,omitempty"`
	Reason           string   `json:"reason"`
}

type InstallationResult struct {
	Found         bool     `json:"found"`
	PartNumber    string   `json:"part_number"`
	PartName      string   `json:"part_name,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	TimeEstimate  string   `json:"time_estimate,omitempty"`
	ToolsRequired []string `json:"tools_required,omitempty"`
	Steps         []string `json:"steps,omitempty"`
	SafetyWarning string   `json:"safety_warning,omitempty"`
	VideoURL      string   `json:"video_url,omitempty"`
	Error         string   `json:"error,omitempty"`
}

type TroubleshootingResult struct {
	Found            bool     `json:"found"`
	Issue            string   `json:"issue"`
	ApplianceType    string   `json:"appliance_type"`
	PossibleCauses   []string `json:"possible_causes,omitempty"`
	Solutions        []string `json:"solutions,omitempty"`
	RelatedParts     []string `json:"related_parts,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	ProfessionalHelp string   `json:"when_to_call_professional,omitempty"`
	GeneralTips      []string `json:"general_tips,omitempty"`
	Error            string   `json:"error,omitempty"`
}

type DetailsResult struct {
	Found            bool              `json:"found"`
	PartNumber       string            `json:"part_number"`
	Name             string            `json:"name,omitempty"`
	Description      string            `json:"description,omitempty"`
	Category         string            `json:"category,omitempty"`
	Manufacturer     string            `json:"manufacturer,omitempty"`
	Price            float64           `json:"price,omitempty"`
	InStock          bool              `json:"in_stock,omitempty"`
	ApplianceType    string            `json:"appliance_type,omitempty"`
	CompatibleModels []string          `json:"compatible_models,omitempty"`
	Specifications   map[string]string `json:"specifications,omitempty"`
	Warranty         string            `json:"warranty,omitempty"`
	OEMPartNumbers   []string          `json:"oem_part_numbers,omitempty"`
	ImageURL         string            `json:"image_url,omitempty"`
	Rating           float64           `json:"rating,omitempty"`
	ReviewCount      int               `json:"review_count,omitempty"`
	Error            string            `json:"error,omitempty"`
}
