package contract

// ResultType tags an Envelope's content so callers know how to interpret it.
type ResultType string

const (
	ResultMessage        ResultType = "message"
	ResultPropertyCards  ResultType = "property_cards"
	ResultPropertySearch ResultType = "property_search"
	ResultIntent         ResultType = "intent"
	ResultSQLQuery       ResultType = "sql_query"
	ResultSQLResults     ResultType = "sql_results"
	ResultValidation     ResultType = "validation"
	ResultError          ResultType = "error"
	ResultAggregate      ResultType = "aggregate"
)

const (
	IntentPropertySearch = "property_search"
	IntentGeneralInfo    = "general_info"
)

// Canonical agent names used for registry lookups.
const (
	AgentQueryRouter      = "QueryRouterAgent"
	AgentIntentClassifier = "IntentClassifierAgent"
	AgentPropertySearch   = "PropertySearchAgent"
	AgentSQLGenerator     = "SQLQueryGeneratorAgent"
	AgentSQLExecutor      = "SQLQueryExecutorAgent"
	AgentSQLValidator     = "SQLValidatorAgent"
	AgentRealEstateInfo   = "RealEstateInfoAgent"
	AgentCoordinator      = "CoordinatorAgent"
)

// Row is a raw record from the property dataset.
type Row = map[string]any

// Request is the shared input every agent consumes. Query is always set by
// outer callers; SQLQuery and Results are filled in by upstream pipeline
// stages for the executor and validator respectively.
type Request struct {
	Query    string `json:"query"`
	SQLQuery string `json:"sql_query,omitempty"`
	Results  []Row  `json:"results,omitempty"`
}

// Envelope is the standardized unit exchanged between agents and callers.
// SQLQuery is only populated by the executor so downstream stages see the
// query that actually ran, fallback substitution included.
type Envelope struct {
	ResultType   ResultType `json:"result_type"`
	Content      any        `json:"content"`
	SourceAgents []string   `json:"source_agents"`
	SQLQuery     string     `json:"sql_query,omitempty"`
}

// PropertyCard is a display-ready projection of a dataset row.
type PropertyCard struct {
	Address     string `json:"address"`
	Price       any    `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// SearchContent is the payload of a property_search envelope.
type SearchContent struct {
	Message    string         `json:"message"`
	Properties []PropertyCard `json:"properties"`
}

// AggregateContent groups fanned-out agent outputs by result kind. Unknown
// result types land in Extra keyed by their type name; the recognized kinds
// are closed and typed.
type AggregateContent struct {
	Messages      []any                `json:"messages,omitempty"`
	PropertyCards []PropertyCard       `json:"property_cards,omitempty"`
	Errors        []string             `json:"errors,omitempty"`
	Extra         map[ResultType][]any `json:"extra,omitempty"`
}
