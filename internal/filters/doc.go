// Package filters builds the query fragments appended to FireFly list
// requests: the created-date window ("&created=>=<unix>") and the user's
// ad-hoc field conditions ("&field=<op>value").
package filters
