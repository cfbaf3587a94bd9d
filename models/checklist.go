// models/checklist.go
package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// The seven checklist sections of a work permit. Each section is a closed
// set of named flags; unknown keys in stored JSON are dropped on decode.
// Sections are persisted as serialized JSON text (jsonb), and older mobile
// clients double-encode them (a JSON string containing JSON), so decoding
// accepts both shapes and falls back to the zero section on garbage — a
// corrupt record must never block rendering or review.

// WorkDetails captures what kind of work is being performed.
type WorkDetails struct {
	Grinding        bool   `json:"grinding"`
	ElectricWelding bool   `json:"electric_welding"`
	GasWelding      bool   `json:"gas_welding"`
	GasType         string `json:"gas_type"`
	Drilling        bool   `json:"drilling"`
	Other           bool   `json:"other"`
	OtherDetail     string `json:"other_detail"`
}

// AnyChecked reports whether at least one work flag is ticked.
// Detail text without a flag does not count.
func (s WorkDetails) AnyChecked() bool {
	return s.Grinding || s.ElectricWelding || s.GasWelding || s.Drilling || s.Other
}

// SpecialWorkType marks work that needs a dedicated permit class.
type SpecialWorkType struct {
	ConfinedSpace bool   `json:"confined_space"`
	HeightWork    bool   `json:"height_work"`
	Other         bool   `json:"other"`
	OtherDetail   string `json:"other_detail"`
}

func (s SpecialWorkType) AnyChecked() bool {
	return s.ConfinedSpace || s.HeightWork || s.Other
}

// RelatedDocuments lists the safety paperwork accompanying the application.
type RelatedDocuments struct {
	JSA             bool   `json:"jsa"`
	SafetyMeasures  bool   `json:"safety_measures"`
	SDS             bool   `json:"sds"`
	SDSChemicals    string `json:"sds_chemicals"`
	OtherDocs       bool   `json:"other_docs"`
	OtherDocsDetail string `json:"other_docs_detail"`
}

func (s RelatedDocuments) AnyChecked() bool {
	return s.JSA || s.SafetyMeasures || s.SDS || s.OtherDocs
}

// SafetyCompliance is the pre-work safety measures checklist.
type SafetyCompliance struct {
	SystemIsolation        bool   `json:"system_isolation"`
	LockoutTagout          bool   `json:"lockout_tagout"`
	WarningSigns           bool   `json:"warning_signs"`
	ToolInspection         bool   `json:"tool_inspection"`
	GasTankInspection      bool   `json:"gas_tank_inspection"`
	FireEquipment          bool   `json:"fire_equipment"`
	ProperClothing         bool   `json:"proper_clothing"`
	AreaBarriers           bool   `json:"area_barriers"`
	AtmosphereMonitoring   bool   `json:"atmosphere_monitoring"`
	VentilationSystem      bool   `json:"ventilation_system"`
	AdditionalRequirements string `json:"additional_requirements"`
}

func (s SafetyCompliance) AnyChecked() bool {
	return s.SystemIsolation || s.LockoutTagout || s.WarningSigns ||
		s.ToolInspection || s.GasTankInspection || s.FireEquipment ||
		s.ProperClothing || s.AreaBarriers || s.AtmosphereMonitoring ||
		s.VentilationSystem
}

// PPERequirements is the personal protective equipment checklist.
type PPERequirements struct {
	BasicPPE              bool   `json:"basic_ppe"`
	DustMask              bool   `json:"dust_mask"`
	WeldingMask           bool   `json:"welding_mask"`
	SafetyGlasses         bool   `json:"safety_glasses"`
	EarProtection         bool   `json:"ear_protection"`
	WeldingGloves         bool   `json:"welding_gloves"`
	HearingProtection     bool   `json:"hearing_protection"`
	SafetyHarness         bool   `json:"safety_harness"`
	FireResistantClothing bool   `json:"fire_resistant_clothing"`
	CanvasSling           bool   `json:"canvas_sling"`
	OtherPPE              string `json:"other_ppe"`
}

func (s PPERequirements) AnyChecked() bool {
	return s.BasicPPE || s.DustMask || s.WeldingMask || s.SafetyGlasses ||
		s.EarProtection || s.WeldingGloves || s.HearingProtection ||
		s.SafetyHarness || s.FireResistantClothing || s.CanvasSling
}

// FireExtinguisherTypes marks which extinguisher classes are on site.
type FireExtinguisherTypes struct {
	Water       bool `json:"water"`
	Foam        bool `json:"foam"`
	DryChemical bool `json:"dry_chemical"`
	CO2         bool `json:"co2"`
}

func (s FireExtinguisherTypes) AnyChecked() bool {
	return s.Water || s.Foam || s.DryChemical || s.CO2
}

// AtmosphereMonitoring holds gas-test readings. Readings come from the
// field as free text ("20.9%", "<10 ppm"), so they stay strings.
type AtmosphereMonitoring struct {
	OxygenLevel  string `json:"oxygen_level"`
	DangerousGas string `json:"dangerous_gas"`
	FlammableGas string `json:"flammable_gas"`
	Other        string `json:"other"`
}

// decodeSection unmarshals raw jsonb into dst, unwrapping one level of
// string encoding if needed. Any parse failure leaves dst at its zero
// value; the codec is fail-open by contract.
func decodeSection(raw datatypes.JSON, dst interface{}) {
	if len(raw) == 0 {
		return
	}
	b := []byte(raw)
	// Double-encoded form: a JSON string whose content is the object.
	if b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return
		}
		b = []byte(inner)
	}
	_ = json.Unmarshal(b, dst)
}

// encodeSection is the structural inverse of decodeSection for
// well-formed sections. Section structs cannot fail to marshal.
func encodeSection(src interface{}) datatypes.JSON {
	b, err := json.Marshal(src)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// DecodeWorkDetails decodes the work_details column, fail-open.
func DecodeWorkDetails(raw datatypes.JSON) WorkDetails {
	var s WorkDetails
	decodeSection(raw, &s)
	return s
}

func DecodeSpecialWorkType(raw datatypes.JSON) SpecialWorkType {
	var s SpecialWorkType
	decodeSection(raw, &s)
	return s
}

func DecodeRelatedDocuments(raw datatypes.JSON) RelatedDocuments {
	var s RelatedDocuments
	decodeSection(raw, &s)
	return s
}

func DecodeSafetyCompliance(raw datatypes.JSON) SafetyCompliance {
	var s SafetyCompliance
	decodeSection(raw, &s)
	return s
}

func DecodePPERequirements(raw datatypes.JSON) PPERequirements {
	var s PPERequirements
	decodeSection(raw, &s)
	return s
}

func DecodeFireExtinguisherTypes(raw datatypes.JSON) FireExtinguisherTypes {
	var s FireExtinguisherTypes
	decodeSection(raw, &s)
	return s
}

func DecodeAtmosphereMonitoring(raw datatypes.JSON) AtmosphereMonitoring {
	var s AtmosphereMonitoring
	decodeSection(raw, &s)
	return s
}

func EncodeWorkDetails(s WorkDetails) datatypes.JSON { return encodeSection(s) }

func EncodeSpecialWorkType(s SpecialWorkType) datatypes.JSON { return encodeSection(s) }

func EncodeRelatedDocuments(s RelatedDocuments) datatypes.JSON { return encodeSection(s) }

func EncodeSafetyCompliance(s SafetyCompliance) datatypes.JSON { return encodeSection(s) }

func EncodePPERequirements(s PPERequirements) datatypes.JSON { return encodeSection(s) }

func EncodeFireExtinguisherTypes(s FireExtinguisherTypes) datatypes.JSON { return encodeSection(s) }

func EncodeAtmosphereMonitoring(s AtmosphereMonitoring) datatypes.JSON { return encodeSection(s) }

// Checklist bundles all decoded sections of one permit, the shape the
// review screen and the validation rules work on.
type Checklist struct {
	WorkDetails           WorkDetails           `json:"work_details"`
	SpecialWorkType       SpecialWorkType       `json:"special_work_type"`
	RelatedDocuments      RelatedDocuments      `json:"related_documents"`
	SafetyCompliance      SafetyCompliance      `json:"safety_compliance"`
	PPERequirements       PPERequirements       `json:"ppe_requirements"`
	FireExtinguisherTypes FireExtinguisherTypes `json:"fire_extinguisher_types"`
	AtmosphereMonitoring  AtmosphereMonitoring  `json:"atmosphere_monitoring"`
}
