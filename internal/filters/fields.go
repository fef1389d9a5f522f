package filters

import "slices"

// Resource names a list screen with its own filterable fields.
type Resource string

// Filterable resources.
const (
	ResourceApprovals Resource = "approvals"
	ResourcePools     Resource = "pools"
)

// Fields accepted by /tokens/approvals.
var ApprovalFields = []string{
	"active",
	"approved",
	"blockchainevent",
	"connector",
	"created",
	"info",
	"key",
	"localid",
	"message",
	"messagehash",
	"namespace",
	"operator",
	"pool",
	"protocolid",
	"subject",
	"tx.id",
	"tx.type",
}

// Fields accepted by /tokens/pools.
var PoolFields = []string{
	"connector",
	"created",
	"id",
	"locator",
	"message",
	"name",
	"namespace",
	"networkname",
	"published",
	"standard",
	"state",
	"symbol",
	"tx.id",
	"tx.type",
	"type",
}

// FieldsFor returns the filterable fields for r.
func FieldsFor(r Resource) []string {
	switch r {
	case ResourcePools:
		return PoolFields
	default:
		return ApprovalFields
	}
}

// ValidField reports whether field can be filtered on for r.
func ValidField(r Resource, field string) bool {
	return slices.Contains(FieldsFor(r), field)
}

// Operator is a FireFly filter operator prefix.
type Operator struct {
	Symbol string
	Label  string
}

// Operators in the order the filter modal offers them. Longer symbols come
// before their prefixes so Parse matches greedily.
var Operators = []Operator{
	{Symbol: "!=", Label: "not equal"},
	{Symbol: ">=", Label: "greater or equal"},
	{Symbol: "<=", Label: "less or equal"},
	{Symbol: "!@", Label: "does not contain"},
	{Symbol: "!^", Label: "does not start with"},
	{Symbol: "!$", Label: "does not end with"},
	{Symbol: "=", Label: "equal"},
	{Symbol: ">", Label: "greater than"},
	{Symbol: "<", Label: "less than"},
	{Symbol: "@", Label: "contains"},
	{Symbol: "^", Label: "starts with"},
	{Symbol: "$", Label: "ends with"},
}

// LookupOperator finds an operator by symbol.
func LookupOperator(symbol string) (Operator, bool) {
	for _, op := range Operators {
		if op.Symbol == symbol {
			return op, true
		}
	}
	return Operator{}, false
}
