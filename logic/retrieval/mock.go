package retrieval

import "nyaya-sahayak/types"

func lawDoc(name, url, docType, text string, score float64) types.RetrievedDocument {
	return types.RetrievedDocument{
		Text:           text,
		RelevanceScore: score,
		Source: types.SourceMetadata{
			SourceName:   name,
			SourceType:   string(types.SourceLaw),
			SourceURL:    url,
			DocumentType: docType,
		},
	}
}

// mockDocuments 检索不可用时的兜底上下文，按法律领域划分
var mockDocuments = map[types.Intent][]types.RetrievedDocument{
	types.IntentCriminal: {
		lawDoc("Bharatiya Nagarik Suraksha Sanhita, 2023", "https://www.indiacode.nic.in", "Code",
			"Every person arrested must be informed of the grounds of arrest and of the right to bail, and must be produced before a Magistrate within 24 hours. Information about a cognizable offence must be recorded by the police as a First Information Report (FIR), and a copy given to the informant free of cost.", 0.75),
		lawDoc("Indian Penal Code, 1860", "https://www.indiacode.nic.in", "Code",
			"The Indian Penal Code defines offences such as theft, criminal intimidation and assault, and prescribes their punishments. Offences are classified as bailable or non-bailable and cognizable or non-cognizable.", 0.7),
	},
	types.IntentCivil: {
		lawDoc("Indian Contract Act, 1872", "https://www.indiacode.nic.in", "Act",
			"An agreement enforceable by law is a contract. When a contract has been broken, the party who suffers by the breach is entitled to receive compensation for any loss or damage caused to them which naturally arose in the usual course of things from the breach (Section 73).", 0.75),
		lawDoc("Limitation Act, 1963", "https://www.indiacode.nic.in", "Act",
			"A suit for compensation for breach of contract must generally be filed within three years from the date of the breach.", 0.65),
	},
	types.IntentConstitutional: {
		{
			Text:           "Article 21: No person shall be deprived of his life or personal liberty except according to procedure established by law. Article 32 guarantees the right to move the Supreme Court by appropriate proceedings, including writs, for the enforcement of fundamental rights.",
			RelevanceScore: 0.75,
			Source: types.SourceMetadata{
				SourceName: "Constitution of India",
				SourceType: string(types.SourceConstitution),
				SourceURL:  "https://legislative.gov.in/constitution-of-india",
			},
		},
	},
	types.IntentFamily: {
		lawDoc("Hindu Marriage Act, 1955", "https://www.indiacode.nic.in", "Act",
			"Either spouse may petition for divorce on grounds including cruelty, desertion for two years, or conversion. Divorce by mutual consent may be sought after the parties have lived separately for one year (Section 13B). Courts may order permanent alimony and maintenance.", 0.75),
		lawDoc("Hindu Succession Act, 1956", "https://www.indiacode.nic.in", "Act",
			"Daughters are coparceners by birth and have the same rights in coparcenary property as sons. A person may dispose of property by will in accordance with the Indian Succession Act.", 0.65),
	},
	types.IntentProperty: {
		lawDoc("Transfer of Property Act, 1882", "https://www.indiacode.nic.in", "Act",
			"The Transfer of Property Act governs leases of immovable property. A lease from month to month is terminable by fifteen days' notice by either party (Section 106), and a landlord must follow due process of law to evict a tenant; a tenant cannot be dispossessed by force.", 0.75),
		lawDoc("Model Tenancy Act, 2021", "https://mohua.gov.in", "Act",
			"Tenancies must be based on a written agreement. A landlord may not cut off essential supplies to the premises and may recover possession only on the grounds and through the Rent Authority or Rent Court procedure prescribed.", 0.65),
	},
	types.IntentLabor: {
		lawDoc("Industrial Disputes Act, 1947", "https://labour.gov.in", "Act",
			"A workman employed for at least one year may not be retrenched without one month's notice in writing or wages in lieu of notice, and retrenchment compensation of fifteen days' average pay for every completed year of service (Section 25F).", 0.75),
		lawDoc("Payment of Gratuity Act, 1972", "https://labour.gov.in", "Act",
			"An employee who has rendered continuous service of at least five years is entitled to gratuity on termination of employment at the rate of fifteen days' wages for each completed year of service.", 0.65),
	},
	types.IntentOther: {
		{
			Text:           "The National Legal Services Authority and State Legal Services Authorities provide free legal aid to eligible persons, including women, children, persons in custody and those below the prescribed income limit. Lok Adalats offer free and fast settlement of disputes.",
			RelevanceScore: 0.6,
			Source: types.SourceMetadata{
				SourceName: "Legal Services Authorities Act, 1987 - Free Legal Aid Guide",
				SourceType: string(types.SourceGuide),
				SourceURL:  "https://nalsa.gov.in",
			},
		},
	},
}

// MockDocuments returns canned grounding documents for the query's legal domain.
// The intent is re-derived from the query because several domains share a filter.
func MockDocuments(query string, filter types.RetrievalFilter) []types.RetrievedDocument {
	intent := DetermineIntent(query)
	if intent == types.IntentOther && filter[types.FilterSourceType] == string(types.SourceConstitution) {
		intent = types.IntentConstitutional
	}

	docs := mockDocuments[intent]
	if len(docs) == 0 {
		docs = mockDocuments[types.IntentOther]
	}
	out := make([]types.RetrievedDocument, len(docs))
	copy(out, docs)
	return out
}
