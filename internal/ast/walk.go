package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}

	case *FunctionDef:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, param := range n.Params {
			Walk(param, fn)
		}
		if n.Return != nil {
			Walk(n.Return, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *Param:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case *ClassDef:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, field := range n.Fields {
			Walk(field, fn)
		}
		if n.Ctor != nil {
			Walk(n.Ctor, fn)
		}
		for _, method := range n.Methods {
			Walk(method, fn)
		}

	case *FieldDecl:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case *ConstructorDef:
		for _, param := range n.Params {
			Walk(param, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *Block:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}

	case *VariableDecl:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *Assignment:
		Walk(n.Target, fn)
		Walk(n.Value, fn)

	case *If:
		Walk(n.Cond, fn)
		if n.Then != nil {
			Walk(n.Then, fn)
		}
		for _, arm := range n.ElseIfs {
			Walk(arm, fn)
		}
		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *ElseIf:
		Walk(n.Cond, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *While:
		Walk(n.Cond, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *ForEach:
		if n.Iter != nil {
			Walk(n.Iter, fn)
		}
		Walk(n.Seq, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *Return:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *Import:
		if n.Name != nil {
			Walk(n.Name, fn)
		}

	case *ExprStmt:
		Walk(n.Expr, fn)

	case *ListLit:
		for _, elem := range n.Elems {
			Walk(elem, fn)
		}

	case *ObjectLit:
		for _, field := range n.Fields {
			if field.Key != nil {
				Walk(field.Key, fn)
			}
			Walk(field.Value, fn)
		}

	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryOp:
		Walk(n.Expr, fn)

	case *Call:
		Walk(n.Callee, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *Member:
		Walk(n.Target, fn)
		if n.Field != nil {
			Walk(n.Field, fn)
		}

	case *Index:
		Walk(n.Target, fn)
		Walk(n.Key, fn)

	case *ListType:
		if n.Elem != nil {
			Walk(n.Elem, fn)
		}

	case *NamedType:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
	}
}
