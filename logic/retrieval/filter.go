package retrieval

import "nyaya-sahayak/types"

// filterTable 意图 -> 额外过滤条件
var filterTable = map[types.Intent]types.RetrievalFilter{
	types.IntentCriminal:       {types.FilterSourceType: string(types.SourceLaw), types.FilterDocumentType: "Code"},
	types.IntentConstitutional: {types.FilterSourceType: string(types.SourceConstitution)},
	types.IntentFamily:         {types.FilterSourceType: string(types.SourceLaw)},
	types.IntentProperty:       {types.FilterSourceType: string(types.SourceLaw)},
	types.IntentCivil:          {types.FilterSourceType: string(types.SourceLaw)},
	types.IntentLabor:          {types.FilterSourceType: string(types.SourceLaw)},
}

// BuildFilter maps an intent onto retrieval metadata filters. Language is always "en".
func BuildFilter(analysis types.QueryAnalysis) types.RetrievalFilter {
	filter := types.RetrievalFilter{types.FilterLanguage: "en"}
	for k, v := range filterTable[analysis.Intent] {
		filter[k] = v
	}
	return filter
}
