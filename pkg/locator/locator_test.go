package locator

import (
	"testing"

	"github.com/stretchr/testify/require"
	zrcaltesting "github.com/zrcal/zrcal/pkg/testing"
	"github.com/zrcal/zrcal/pkg/waste"
)

func testLocator(t *testing.T, m Mapping) *Locator {
	l, err := New(Config{
		Logger:  zrcaltesting.NewLogger(),
		Mapping: m,
	})
	require.NoError(t, err)
	return l
}

func TestZrcal_Locator_New_Validation(t *testing.T) {
	t.Parallel()

	t.Run("missing logger", func(t *testing.T) {
		t.Parallel()
		l, err := New(Config{Mapping: EraFor(2020)})
		require.Error(t, err)
		require.Nil(t, l)
		require.Contains(t, err.Error(), "logger is required")
	})

	t.Run("missing mapping", func(t *testing.T) {
		t.Parallel()
		l, err := New(Config{Logger: zrcaltesting.NewLogger()})
		require.Error(t, err)
		require.Nil(t, l)
		require.Contains(t, err.Error(), "mapping is required")
	})
}

func TestZrcal_Locator_URL_SingleID(t *testing.T) {
	t.Parallel()
	l := testLocator(t, EraFor(2020))

	url, err := l.URL(waste.Papier)
	require.NoError(t, err)
	require.Equal(t,
		"https://data.stadt-zuerich.ch/dataset/entsorgungskalender_papier/resource/eeca6200-7cc1-4f05-af13-fc262b830149/download/papier.csv",
		url)
}

func TestZrcal_Locator_URL_IDPair(t *testing.T) {
	t.Parallel()
	l := testLocator(t, EraFor(2021))

	url, err := l.URL(waste.Karton)
	require.NoError(t, err)
	require.Equal(t,
		"https://data.stadt-zuerich.ch/dataset/e8be896b-8aea-40b7-b042-961273576cd3/resource/2ae3e825-5b5f-47fd-9838-035f9d625d0e/download/entsorgungskalender_karton.csv",
		url)
}

func TestZrcal_Locator_URL_YearOnly(t *testing.T) {
	t.Parallel()
	l := testLocator(t, EraFor(2022))

	url, err := l.URL(waste.Papier)
	require.NoError(t, err)
	require.Equal(t,
		"https://data.stadt-zuerich.ch/dataset/erz_entsorgungskalender_papier/download/entsorgungskalender_papier_2022.csv",
		url)
}

func TestZrcal_Locator_URL_GartenabfallSlug(t *testing.T) {
	t.Parallel()

	// Garden waste is published under the "bioabfall" slug in every
	// template shape, while the mapping key stays "gartenabfall".
	t.Run("single id", func(t *testing.T) {
		t.Parallel()
		l := testLocator(t, EraFor(2020))
		url, err := l.URL(waste.Gartenabfall)
		require.NoError(t, err)
		require.Equal(t,
			"https://data.stadt-zuerich.ch/dataset/entsorgungskalender_gartenabfall/resource/a0953059-f4e6-4fe5-8db3-a2ccbda884a6/download/bioabfall.csv",
			url)
	})

	t.Run("year only", func(t *testing.T) {
		t.Parallel()
		l := testLocator(t, EraFor(2023))
		url, err := l.URL(waste.Gartenabfall)
		require.NoError(t, err)
		require.Equal(t,
			"https://data.stadt-zuerich.ch/dataset/erz_entsorgungskalender_bioabfall/download/entsorgungskalender_bioabfall_2023.csv",
			url)
	})
}

func TestZrcal_Locator_URL_ETramLowercasesSlug(t *testing.T) {
	t.Parallel()
	l := testLocator(t, EraFor(2022))

	// The dataset path is lowercased, the file name keeps the camel
	// case type name.
	url, err := l.URL(waste.ETram)
	require.NoError(t, err)
	require.Equal(t,
		"https://data.stadt-zuerich.ch/dataset/erz_entsorgungskalender_etram/download/entsorgungskalender_eTram_2022.csv",
		url)
}

func TestZrcal_Locator_URL_UnknownType(t *testing.T) {
	t.Parallel()

	// Sammelstellen dropped out of the portal's tables after 2017.
	l := testLocator(t, EraFor(2019))

	url, err := l.URL(waste.Sammelstellen)
	require.Empty(t, url)

	var uerr *UnknownTypeError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, waste.Sammelstellen, uerr.Type)
}

func TestZrcal_Locator_URL_CustomBaseURL(t *testing.T) {
	t.Parallel()
	l, err := New(Config{
		Logger:  zrcaltesting.NewLogger(),
		BaseURL: "http://127.0.0.1:9999/",
		Mapping: EraFor(2022),
	})
	require.NoError(t, err)

	url, err := l.URL(waste.Kehricht)
	require.NoError(t, err)
	require.Equal(t,
		"http://127.0.0.1:9999/dataset/erz_entsorgungskalender_kehricht/download/entsorgungskalender_kehricht_2022.csv",
		url)
}

func TestZrcal_Locator_EraFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, RefSingleID, EraFor(2015)[waste.Papier].Kind)
	require.Equal(t, RefSingleID, EraFor(2016)[waste.Papier].Kind)
	require.Equal(t, RefSingleID, EraFor(2020)[waste.Papier].Kind)
	require.Equal(t, RefIDPair, EraFor(2021)[waste.Papier].Kind)
	require.Equal(t, RefYearOnly, EraFor(2022)[waste.Papier].Kind)
	require.Equal(t, RefYearOnly, EraFor(2030)[waste.Papier].Kind)
	require.Equal(t, 2030, EraFor(2030)[waste.Papier].Year)

	// Era selection never picks the template by year once a mapping is
	// chosen; the ref kind decides.
	for year := 2016; year <= 2020; year++ {
		m := EraFor(year)
		for typ, ref := range m {
			require.Equal(t, RefSingleID, ref.Kind, "year %d type %s", year, typ)
		}
	}
}

func TestZrcal_Locator_Types(t *testing.T) {
	t.Parallel()

	l := testLocator(t, EraFor(2016))
	require.Equal(t, waste.KnownTypes(), l.Types())

	l = testLocator(t, EraFor(2022))
	types := l.Types()
	require.NotContains(t, types, waste.Textilien)
	require.NotContains(t, types, waste.Sammelstellen)
	require.Contains(t, types, waste.Papier)
}
