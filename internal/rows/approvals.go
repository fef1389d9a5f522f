package rows

import "github.com/five82/ffscope/internal/firefly"

// Approvals is the token approvals table.
var Approvals = Projection[firefly.TokenApproval]{
	ID: func(a firefly.TokenApproval) string { return a.LocalID },
	Columns: []Column[firefly.TokenApproval]{
		{Header: "ID", Width: 14, Cell: func(a firefly.TokenApproval) Cell { return Hash(a.LocalID) }},
		{Header: "SIGNING KEY", Width: 14, Cell: func(a firefly.TokenApproval) Cell { return Hash(a.Key) }},
		{Header: "OPERATOR", Width: 14, Cell: func(a firefly.TokenApproval) Cell { return Hash(a.Operator) }},
		{Header: "POOL", Width: 14, Cell: func(a firefly.TokenApproval) Cell { return Hash(a.Pool) }},
		{Header: "PROTOCOL ID", Width: 14, Cell: func(a firefly.TokenApproval) Cell { return Hash(a.ProtocolID) }},
		{Header: "APPROVED?", Width: 9, Cell: func(a firefly.TokenApproval) Cell { return YesNo(a.Approved) }},
		{Header: "CREATED", Width: 16, Cell: func(a firefly.TokenApproval) Cell { return Created(a.Created) }},
	},
}
