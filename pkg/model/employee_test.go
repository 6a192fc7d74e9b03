package model

import (
	"testing"
)

func TestEmployee_HasSkill(t *testing.T) {
	e := &Employee{
		Skills: []string{"cooking", "service", "cleaning"},
	}

	tests := []struct {
		skill    string
		expected bool
	}{
		{"cooking", true},
		{"service", true},
		{"cleaning", true},
		{"welding", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			if result := e.HasSkill(tt.skill); result != tt.expected {
				t.Errorf("HasSkill(%s) = %v, expected %v", tt.skill, result, tt.expected)
			}
		})
	}
}

func TestEmployee_HasAnySkill(t *testing.T) {
	e := &Employee{Skills: []string{"cooking"}}

	tests := []struct {
		name     string
		required []string
		expected bool
	}{
		{"无要求视为符合", nil, true},
		{"空列表视为符合", []string{}, true},
		{"具备其一", []string{"welding", "cooking"}, true},
		{"全不具备", []string{"welding", "nursing"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := e.HasAnySkill(tt.required); result != tt.expected {
				t.Errorf("HasAnySkill(%v) = %v, expected %v", tt.required, result, tt.expected)
			}
		})
	}
}

func TestEmployee_AvailableOn(t *testing.T) {
	e := &Employee{
		Availability: map[string]bool{"monday": false, "tuesday": true},
	}

	tests := []struct {
		day      string
		expected bool
	}{
		{"monday", false},
		{"tuesday", true},
		{"wednesday", true}, // 未声明视为可用
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			if result := e.AvailableOn(tt.day); result != tt.expected {
				t.Errorf("AvailableOn(%s) = %v, expected %v", tt.day, result, tt.expected)
			}
		})
	}
}

func TestEmployee_AvailableOn_NoDeclaration(t *testing.T) {
	e := &Employee{}
	if !e.AvailableOn("monday") {
		t.Error("无可用性声明时应视为全周可用")
	}
}

func TestEmployee_PreferenceFor(t *testing.T) {
	e := &Employee{
		Preferences: map[string]float64{"1": 5.0, "2": -2.0},
	}

	tests := []struct {
		shiftID  string
		expected float64
	}{
		{"1", 5.0},
		{"2", -2.0},
		{"3", 0}, // 未声明视为中性
	}

	for _, tt := range tests {
		t.Run(tt.shiftID, func(t *testing.T) {
			if result := e.PreferenceFor(tt.shiftID); result != tt.expected {
				t.Errorf("PreferenceFor(%s) = %v, expected %v", tt.shiftID, result, tt.expected)
			}
		})
	}
}

func TestShift_HasSkillRequirement(t *testing.T) {
	withSkill := &Shift{RequiredSkills: []string{"cooking"}}
	if !withSkill.HasSkillRequirement() {
		t.Error("有技能要求的班次应返回true")
	}
	noSkill := &Shift{}
	if noSkill.HasSkillRequirement() {
		t.Error("无技能要求的班次应返回false")
	}
}
