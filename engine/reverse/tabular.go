package reverse

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"

	"github.com/josephhbu/ChatDB/engine/models"
)

// ============================================================================
// ENTRY POINT
// ============================================================================

func parseTabular(sql string) (*models.RenderedQuery, error) {
	p := parser.New()
	stmts, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseError, err)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("%w: empty statement", ErrParseError)
	}
	if len(stmts) > 1 {
		return nil, fmt.Errorf("%w: %d statements, only one is accepted", models.ErrNotAllowed, len(stmts))
	}

	var container string
	switch stmt := stmts[0].(type) {
	case *ast.SelectStmt:
		if stmt.SelectIntoOpt != nil {
			return nil, fmt.Errorf("%w: SELECT ... INTO", models.ErrNotAllowed)
		}
		if stmt.LockInfo != nil && stmt.LockInfo.LockType != ast.SelectLockNone {
			return nil, fmt.Errorf("%w: locking SELECT", models.ErrNotAllowed)
		}
		if stmt.From != nil {
			container = firstTable(stmt.From.TableRefs)
		}
	case *ast.ShowStmt:
		if stmt.Table != nil {
			container = stmt.Table.Name.O
		}
	default:
		return nil, fmt.Errorf("%w: only SELECT and SHOW statements are accepted", models.ErrNotAllowed)
	}

	return &models.RenderedQuery{
		Dialect:     models.DialectTabular,
		Template:    RawTemplate,
		Container:   container,
		Text:        strings.TrimRight(strings.TrimSpace(sql), ";"),
		Description: sql,
	}, nil
}

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

func firstTable(refs *ast.Join) string {
	if refs == nil {
		return ""
	}
	switch left := refs.Left.(type) {
	case *ast.TableSource:
		switch src := left.Source.(type) {
		case *ast.TableName:
			return src.Name.O
		case *ast.SelectStmt:
			if src.From != nil {
				return firstTable(src.From.TableRefs)
			}
		}
	case *ast.Join:
		return firstTable(left)
	}
	return ""
}
