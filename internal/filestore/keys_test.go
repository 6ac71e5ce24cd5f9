package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileType(t *testing.T) {
	ft, err := ParseFileType("bill")
	require.NoError(t, err)
	assert.Equal(t, TypeBill, ft)

	_, err = ParseFileType("ARCHIVE")
	assert.Error(t, err)
}

func TestComputeKey_EntityScoped(t *testing.T) {
	key, err := ComputeKey(TypeImage, KeyParams{Folder: "representatives", ID: "01ABC", FileName: "portrait.png"})
	require.NoError(t, err)
	assert.Equal(t, "representatives/01ABC/images/portrait.png", key)

	key, err = ComputeKey(TypeCase, KeyParams{Folder: "representatives", ID: "01ABC", FileName: "case.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "representatives/01ABC/cases/case.pdf", key)

	key, err = ComputeKey(TypeManifesto, KeyParams{Folder: "representatives", ID: "01ABC", FileName: "m.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "representatives/01ABC/manifestos/m.pdf", key)
}

func TestComputeKey_HouseScoped(t *testing.T) {
	key, err := ComputeKey(TypeBill, KeyParams{Folder: "documents", House: "SENATE", FileName: "finance-bill.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "documents/bills/SENATE/finance-bill.pdf", key)

	key, err = ComputeKey(TypeProceeding, KeyParams{Folder: "documents", House: "NATIONAL_ASSEMBLY", FileName: "hansard.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "documents/proceedings/NATIONAL_ASSEMBLY/hansard.pdf", key)

	key, err = ComputeKey(TypeVote, KeyParams{Folder: "documents", House: "SENATE", FileName: "division.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "documents/votes/SENATE/division.pdf", key)
}

func TestComputeKey_ListPrefix(t *testing.T) {
	key, err := ComputeKey(TypeAll, KeyParams{Folder: "representatives", ID: "01ABC"})
	require.NoError(t, err)
	assert.Equal(t, "representatives/01ABC/", key)

	// A blank file name on a typed key lists that type's directory.
	key, err = ComputeKey(TypeImage, KeyParams{Folder: "representatives", ID: "01ABC"})
	require.NoError(t, err)
	assert.Equal(t, "representatives/01ABC/images/", key)
}

func TestComputeKey_MissingInputs(t *testing.T) {
	_, err := ComputeKey(TypeImage, KeyParams{Folder: "representatives", FileName: "portrait.png"})
	assert.Error(t, err)

	_, err = ComputeKey(TypeBill, KeyParams{Folder: "documents", FileName: "finance-bill.pdf"})
	assert.Error(t, err)

	_, err = ComputeKey(TypeBill, KeyParams{House: "SENATE", FileName: "finance-bill.pdf"})
	assert.Error(t, err)
}
