package catalog_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsdesk/partsdesk/pkg/catalog"
)

const testDatabase = `{
  "parts": [
    {
      "part_number": "PS11752778",
      "name": "Refrigerator Door Bin",
      "description": "Clear door bin for side-by-side refrigerators",
      "category": "bins",
      "manufacturer": "Whirlpool",
      "price": 45.99,
      "in_stock": true,
      "appliance_type": "refrigerator",
      "compatible_models": ["WRS325SDHZ", "WRS571CIHZ", "WRS588FIHZ"],
      "installation_guide": [
        "Open the refrigerator door fully",
        "Lift the old bin straight up and out",
        "Align the new bin with the door slots",
        "Press down until it clicks into place"
      ],
      "installation_difficulty": "Easy",
      "installation_time": "5 minutes"
    },
    {
      "part_number": "PS-MAGIC-9000",
      "name": "Universal Miracle Valve",
      "description": "Fits everything",
      "category": "valves",
      "price": 19.99,
      "in_stock": true,
      "appliance_type": "refrigerator",
      "compatible_models": ["WRS325SDHZ"]
    },
    {
      "part_number": "PS11746337",
      "name": "Gold Plated Water Filter",
      "description": "Premium refrigerator water filter",
      "category": "filters",
      "price": 9500.0,
      "in_stock": true,
      "appliance_type": "refrigerator",
      "compatible_models": ["WRS325SDHZ"]
    },
    {
      "part_number": "PS11750093",
      "name": "Dishwasher Drain Pump",
      "description": "Drain pump and motor assembly",
      "category": "pumps",
      "price": 86.49,
      "in_stock": true,
      "appliance_type": "dishwasher",
      "compatible_models": ["WDT730PAHZ"],
      "installation_guide": [
        "Disconnect power at the breaker",
        "Test the pump while running to verify the fault",
        "Remove the lower access panel",
        "Swap the pump and reassemble"
      ]
    }
  ],
  "default_guides": {
    "installation": {
      "filters": [
        "Locate the filter housing",
        "Twist the old filter counterclockwise to remove",
        "Insert the new filter and twist clockwise"
      ]
    }
  },
  "troubleshooting_guides": {
    "refrigerator": [
      {
        "issue": "Refrigerator not cooling",
        "keywords": ["not cooling", "warm", "temperature"],
        "causes": ["Dirty condenser coils", "Faulty evaporator fan"],
        "solutions": ["Clean the coils", "Replace the fan motor"],
        "related_parts": ["PS429725"],
        "difficulty": "Medium"
      },
      {
        "issue": "Ice maker not working",
        "keywords": ["ice", "ice maker"],
        "causes": ["Frozen fill tube"],
        "solutions": ["Thaw the fill tube"],
        "related_parts": ["PS12364199"]
      }
    ]
  }
}`

func newTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store, err := catalog.NewStoreFromBytes(logger, []byte(testDatabase))
	require.NoError(t, err)
	return store
}

func TestSearchParts(t *testing.T) {
	store := newTestStore(t)

	t.Run("matches name", func(t *testing.T) {
		res := store.SearchParts("door bin", "refrigerator")
		require.True(t, res.Found)
		require.Len(t, res.Results, 1)
		assert.Equal(t, "PS11752778", res.Results[0].PartNumber)
	})

	t.Run("matches compatible model", func(t *testing.T) {
		res := store.SearchParts("WDT730PAHZ", "both")
		require.True(t, res.Found)
		assert.Equal(t, "PS11750093", res.Results[0].PartNumber)
	})

	t.Run("appliance type filters results", func(t *testing.T) {
		res := store.SearchParts("pump", "refrigerator")
		assert.False(t, res.Found)
		assert.Empty(t, res.Results)
	})

	t.Run("fake part numbers are withheld", func(t *testing.T) {
		res := store.SearchParts("valve", "refrigerator")
		assert.False(t, res.Found)
		for _, p := range res.Results {
			assert.NotEqual(t, "PS-MAGIC-9000", p.PartNumber)
		}
	})

	t.Run("implausible prices are withheld", func(t *testing.T) {
		res := store.SearchParts("water filter", "refrigerator")
		assert.False(t, res.Found)
	})

	t.Run("empty query", func(t *testing.T) {
		res := store.SearchParts("   ", "both")
		assert.False(t, res.Found)
		assert.NotEmpty(t, res.Message)
	})
}

func TestCheckCompatibility(t *testing.T) {
	store := newTestStore(t)

	t.Run("compatible", func(t *testing.T) {
		res := store.CheckCompatibility("PS11752778", "WRS325SDHZ")
		assert.True(t, res.Compatible)
		assert.Equal(t, "Refrigerator Door Bin", res.PartName)
	})

	t.Run("model match is case insensitive", func(t *testing.T) {
		res := store.CheckCompatibility("ps11752778", "wrs325sdhz")
		assert.True(t, res.Compatible)
	})

	t.Run("not compatible lists alternatives", func(t *testing.T) {
		res := store.CheckCompatibility("PS11752778", "GSS25GSHSS")
		assert.False(t, res.Compatible)
		assert.Equal(t, []string{"WRS325SDHZ", "WRS571CIHZ", "WRS588FIHZ"}, res.CompatibleModels)
	})

	t.Run("invalid part number format", func(t *testing.T) {
		res := store.CheckCompatibility("PS-MAGIC-9000", "WRS325SDHZ")
		assert.False(t, res.Compatible)
		assert.Equal(t, "Invalid part number format", res.Reason)
	})

	t.Run("unknown part", func(t *testing.T) {
		res := store.CheckCompatibility("PS99999999", "WRS325SDHZ")
		assert.False(t, res.Compatible)
		assert.Equal(t, "Part not found", res.Reason)
	})

	t.Run("missing arguments", func(t *testing.T) {
		res := store.CheckCompatibility("", "WRS325SDHZ")
		assert.False(t, res.Compatible)
		assert.Contains(t, res.Reason, "required")
	})
}

func TestInstallationGuide(t *testing.T) {
	store := newTestStore(t)

	t.Run("part specific guide", func(t *testing.T) {
		res := store.InstallationGuide("PS11752778")
		require.True(t, res.Found)
		assert.Len(t, res.Steps, 4)
		assert.Equal(t, "Easy", res.Difficulty)
		assert.NotEmpty(t, res.SafetyWarning)
	})

	t.Run("dangerous steps are filtered", func(t *testing.T) {
		res := store.InstallationGuide("PS11750093")
		require.True(t, res.Found)
		assert.Len(t, res.Steps, 3)
		for _, step := range res.Steps {
			assert.NotContains(t, step, "while running")
		}
		assert.NotEmpty(t, res.SafetyWarning)
	})

	t.Run("category default guide", func(t *testing.T) {
		res := store.InstallationGuide("PS11746337")
		require.True(t, res.Found)
		assert.Contains(t, res.Steps[0], "filter housing")
	})

	t.Run("unknown part", func(t *testing.T) {
		res := store.InstallationGuide("PS99999999")
		assert.False(t, res.Found)
		assert.Equal(t, "Part not found", res.Error)
	})
}

func TestTroubleshootingGuide(t *testing.T) {
	store := newTestStore(t)

	t.Run("best keyword match wins", func(t *testing.T) {
		res := store.TroubleshootingGuide("fridge is warm, not cooling at the right temperature", "refrigerator")
		require.True(t, res.Found)
		assert.Equal(t, "Refrigerator not cooling", res.Issue)
		assert.Equal(t, []string{"Clean the coils", "Replace the fan motor"}, res.Solutions)
	})

	t.Run("no match falls back to generic tips", func(t *testing.T) {
		res := store.TroubleshootingGuide("door handle wobbles", "refrigerator")
		assert.False(t, res.Found)
		assert.NotEmpty(t, res.GeneralTips)
	})

	t.Run("unknown appliance type", func(t *testing.T) {
		res := store.TroubleshootingGuide("not cooling", "dishwasher")
		assert.False(t, res.Found)
		assert.NotEmpty(t, res.GeneralTips)
	})

	t.Run("missing arguments", func(t *testing.T) {
		res := store.TroubleshootingGuide("", "refrigerator")
		assert.False(t, res.Found)
		assert.NotEmpty(t, res.Error)
	})
}

func TestPartDetails(t *testing.T) {
	store := newTestStore(t)

	t.Run("found", func(t *testing.T) {
		res := store.PartDetails("PS11752778")
		require.True(t, res.Found)
		assert.Equal(t, "Refrigerator Door Bin", res.Name)
		assert.Equal(t, 45.99, res.Price)
		assert.Equal(t, "90 days", res.Warranty)
	})

	t.Run("not found", func(t *testing.T) {
		res := store.PartDetails("PS99999999")
		assert.False(t, res.Found)
		assert.Contains(t, res.Error, "PS99999999")
	})
}

func TestNewStoreFromBytes_Invalid(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	_, err := catalog.NewStoreFromBytes(logger, []byte("not json"))
	assert.Error(t, err)

	_, err = catalog.NewStoreFromBytes(logger, []byte(`{"parts": []}`))
	assert.Error(t, err)
}
