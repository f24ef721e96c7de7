// Package all wires every built-in store backend into the factory.
//
// The package exists purely for side effects: a blank import runs each
// backend's init, which registers its factory with the store package.
// Importing it makes the following kinds available at runtime:
//
//   - "sqlite"   (projex/internal/store/sqlite)
//   - "postgres" (projex/internal/store/postgres)
//   - "mssql"    (projex/internal/store/mssql)
//   - "csvfile"  (projex/internal/store/csvfile)
//
// A binary that only needs a subset can blank-import the specific
// backends instead.
package all

import (
	_ "projex/internal/store/csvfile"
	_ "projex/internal/store/mssql"
	_ "projex/internal/store/postgres"
	_ "projex/internal/store/sqlite"
)
