package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrugDescriptor_ClassMatching(t *testing.T) {
	tests := []struct {
		name           string
		drug           DrugDescriptor
		wantPARP       bool
		wantPlatinum   bool
		wantCheckpoint bool
	}{
		{
			name:     "PARP inhibitor by class",
			drug:     DrugDescriptor{Name: "Olaparib", Class: "PARP inhibitor"},
			wantPARP: true,
		},
		{
			name:     "PARP inhibitor by mechanism",
			drug:     DrugDescriptor{Name: "Niraparib", Mechanism: "PARP1/2 inhibition"},
			wantPARP: true,
		},
		{
			name:         "Platinum chemotherapy",
			drug:         DrugDescriptor{Name: "Carboplatin", Class: "Platinum chemotherapy"},
			wantPlatinum: true,
		},
		{
			name:           "Checkpoint inhibitor via PD-1 mechanism",
			drug:           DrugDescriptor{Name: "Pembrolizumab", Mechanism: "Anti-PD-1 antibody"},
			wantCheckpoint: true,
		},
		{
			name:           "Checkpoint inhibitor via CTLA-4 mechanism",
			drug:           DrugDescriptor{Name: "Ipilimumab", Mechanism: "CTLA-4 blockade"},
			wantCheckpoint: true,
		},
		{
			name: "Taxane matches nothing",
			drug: DrugDescriptor{Name: "Paclitaxel", Class: "Taxane"},
		},
		{
			name: "Drug name alone never matches",
			drug: DrugDescriptor{Name: "Olaparib"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPARP, tt.drug.IsPARPInhibitor())
			assert.Equal(t, tt.wantPlatinum, tt.drug.IsPlatinum())
			assert.Equal(t, tt.wantCheckpoint, tt.drug.IsCheckpointInhibitor())
		})
	}
}

func TestBiomarkerRecord_NilSafety(t *testing.T) {
	var record *BiomarkerRecord

	assert.False(t, record.HasExpression())
	assert.False(t, record.HasMeasuredTMB())
	assert.Equal(t, MSI_UNKNOWN, record.NormalizedMSI())
	assert.Nil(t, record.MutatedGenes())
}

func TestBiomarkerRecord_NormalizedMSI(t *testing.T) {
	tests := []struct {
		name   string
		status MSIStatus
		want   MSIStatus
	}{
		{"Canonical high", MSI_HIGH, MSI_HIGH},
		{"Empty is unknown", "", MSI_UNKNOWN},
		{"Free-form alias re-parses", MSIStatus("msi-h"), MSI_HIGH},
		{"Unrecognized is unknown", MSIStatus("equivocal"), MSI_UNKNOWN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &BiomarkerRecord{MSIStatus: tt.status}
			assert.Equal(t, tt.want, record.NormalizedMSI())
		})
	}
}

func TestBiomarkerRecord_MutatedGenes(t *testing.T) {
	record := &BiomarkerRecord{
		SomaticMutations: []Mutation{
			{Gene: "pole"},
			{Gene: "TP53"},
			{Gene: "POLE"}, // duplicate across case
		},
		GermlineMutations: []Mutation{
			{Gene: " brca1 "},
			{Gene: ""},
		},
	}

	assert.Equal(t, []string{"POLE", "TP53", "BRCA1"}, record.MutatedGenes())
}
