// Package omim builds OMIM gene to disorder associations on top of the
// shared ingest core.
package omim

import (
	"net/url"

	"github.com/c360studio/semingest/source"
)

// Name is the ingest name and the definedBy of every association.
const Name = "omim"

const (
	// DownloadURL is the base of the authenticated OMIM downloads.
	DownloadURL = "https://data.omim.org/downloads/"

	// PublicURL serves the freely available files.
	PublicURL = "https://omim.org/static/omim/data/"

	// APIURL is the entry endpoint of the OMIM API.
	APIURL = "https://api.omim.org/api/entry"
)

// File keys.
const (
	FileMim2Gene         = "mim2genes"
	FileMorbidmap        = "morbidmap"
	FilePhenotypicSeries = "phenotypicSeries"
	FileMimTitles        = "mimtitles"
)

// Column layouts of the tab separated files, as ParseHeader returns them.
var (
	Mim2GeneColumns = []string{
		"MIM Number",
		"MIM Entry Type (see FAQ 1.3 at https://omim.org/help/faq)",
		"Entrez Gene ID (NCBI)",
		"Approved Gene Symbol (HGNC)",
		"Ensembl Gene ID (Ensembl)",
	}

	MorbidmapColumns = []string{
		"Phenotype",
		"Gene Symbols",
		"MIM Number",
		"Cyto Location",
	}

	PhenotypicSeriesColumns = []string{
		"Phenotypic Series Title",
		"Phenotypic Series number",
	}

	MimTitlesColumns = []string{
		"Prefix",
		"Mim Number",
		"Preferred Title; symbol",
		"Alternative Title(s); symbol(s)",
		"Included Title(s); symbols",
	}
)

// Files lists the upstream files. Files behind apiKey carry it in URL and a
// key-free address in Clean.
func Files(apiKey string) []source.File {
	private := func(name string) (string, string) {
		clean := DownloadURL + "<apiKey>/" + name
		return DownloadURL + url.PathEscape(apiKey) + "/" + name, clean
	}
	morbidURL, morbidClean := private("morbidmap.txt")
	titlesURL, titlesClean := private("mimTitles.txt")

	return []source.File{
		{
			Key:     FileMim2Gene,
			File:    "mim2gene.txt",
			URL:     PublicURL + "mim2gene.txt",
			Columns: Mim2GeneColumns,
		},
		{
			Key:     FileMorbidmap,
			File:    "morbidmap.txt",
			URL:     morbidURL,
			Clean:   morbidClean,
			Columns: MorbidmapColumns,
		},
		{
			Key:     FilePhenotypicSeries,
			File:    "phenotypic_series_title_all.txt",
			URL:     "https://omim.org/phenotypicSeriesTitles/all?format=tsv",
			Columns: PhenotypicSeriesColumns,
		},
		{
			Key:     FileMimTitles,
			File:    "mimTitles.txt",
			URL:     titlesURL,
			Clean:   titlesClean,
			Columns: MimTitlesColumns,
		},
	}
}

// NewFetcher configures a BatchFetcher for the entry API. Entries are asked
// for with their text, external links and gene map.
func NewFetcher(apiKey string) *source.BatchFetcher {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("apiKey", apiKey)
	params.Set("include", "all")
	return &source.BatchFetcher{
		Endpoint:  APIURL,
		Params:    params,
		IDParam:   "mimNumber",
		BatchSize: source.DefaultBatchSize,
	}
}
