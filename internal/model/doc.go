// Package model holds the catalog record types. Each struct maps one-to-one
// to a table and carries validate tags mirroring the column constraints.
package model
