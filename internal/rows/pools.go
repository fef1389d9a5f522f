package rows

import (
	"strings"

	"github.com/five82/ffscope/internal/firefly"
)

// Pools is the token pools table.
var Pools = Projection[firefly.TokenPool]{
	ID: func(p firefly.TokenPool) string { return p.ID },
	Columns: []Column[firefly.TokenPool]{
		{Header: "NAME", Width: 18, Cell: func(p firefly.TokenPool) Cell { return Text(p.Name) }},
		{Header: "TYPE", Width: 10, Cell: func(p firefly.TokenPool) Cell { return Text(p.Type) }},
		{Header: "STANDARD", Width: 10, Cell: func(p firefly.TokenPool) Cell { return Text(p.Standard) }},
		{Header: "SYMBOL", Width: 8, Cell: func(p firefly.TokenPool) Cell { return Text(p.Symbol) }},
		{Header: "CONNECTOR", Width: 14, Cell: func(p firefly.TokenPool) Cell { return Text(p.Connector) }},
		{Header: "STATE", Width: 10, Cell: func(p firefly.TokenPool) Cell { return PoolState(p.StateLabel()) }},
		{Header: "CREATED", Width: 16, Cell: func(p firefly.TokenPool) Cell { return Created(p.Created) }},
	},
}

// PoolState renders a pool state badge.
func PoolState(state string) Cell {
	tone := ToneWarning
	switch strings.ToLower(state) {
	case "confirmed", "active":
		tone = ToneSuccess
	case "failed", "error":
		tone = ToneDanger
	}
	return Cell{Kind: CellBadge, Value: strings.ToUpper(state), Tone: tone}
}
