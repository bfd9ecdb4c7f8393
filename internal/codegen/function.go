package codegen

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/angelobarone/minilang-compiler/internal/ast"
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/token"
)

// block is one LLVM basic block under construction: a label and the
// instruction lines emitted into it so far.
type block struct {
	label string
	lines []string
}

func (b *block) emit(line string) {
	b.lines = append(b.lines, "  "+line)
}

// terminated reports whether the block already ends in a terminator
// (ret/br), matching is_terminated on the reference builder.
func (b *block) terminated() bool {
	if len(b.lines) == 0 {
		return false
	}
	last := strings.TrimSpace(b.lines[len(b.lines)-1])
	return strings.HasPrefix(last, "ret ") || strings.HasPrefix(last, "br ")
}

// fn tracks per-function codegen state: the symbol table of alloca slots,
// SSA value/block numbering, and the ordered list of completed blocks.
type fn struct {
	name     string
	blocks   []*block
	current  *block
	symtab   map[string]string // variable name -> %slot register holding its alloca
	valueN   int
	labelSeq map[string]int      // per-prefix counter, so the first "then" in a function keeps the bare name
	funcs    map[string]*funcSig // shared function table, for call-site validation
}

func (g *generator) genFunction(decl *ast.FunctionDecl) (string, error) {
	f := &fn{name: decl.Name, symtab: make(map[string]string), funcs: g.functions, labelSeq: make(map[string]int)}
	entry := f.newBlock("entry")
	f.current = entry
	f.blocks = append(f.blocks, entry)

	for _, p := range decl.Params {
		slot := f.newSlot(p)
		f.emit("%s = alloca i64", slot)
		f.emit("store i64 %s, i64* %s", quoteLocal(p+".arg"), slot)
	}

	if err := f.genBlock(decl.Body); err != nil {
		return "", err
	}

	if !f.current.terminated() {
		slog.Debug("synthesizing implicit return", "function", f.name)
		f.emit("ret i64 0")
	}

	return f.render(decl.Params), nil
}

func (f *fn) render(params []string) string {
	argNames := make([]string, len(params))
	for i, p := range params {
		argNames[i] = fmt.Sprintf("i64 %s", quoteLocal(p+".arg"))
	}

	var out strings.Builder
	fmt.Fprintf(&out, "define i64 %s(%s) {\n", quoteGlobal(f.name), strings.Join(argNames, ", "))
	for _, b := range f.blocks {
		fmt.Fprintf(&out, "%s:\n", b.label)
		for _, line := range b.lines {
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	out.WriteString("}\n")
	return out.String()
}

// newBlock mints a fresh label, keeping the bare prefix for the first
// block of that kind in the function and only disambiguating with a
// numeric suffix from the second occurrence on (the same uniquification
// an LLVM IRBuilder applies to basic block names automatically).
func (f *fn) newBlock(prefix string) *block {
	n := f.labelSeq[prefix]
	f.labelSeq[prefix] = n + 1
	if n == 0 {
		return &block{label: prefix}
	}
	return &block{label: fmt.Sprintf("%s.%d", prefix, n)}
}

func (f *fn) appendBlock(b *block) {
	f.blocks = append(f.blocks, b)
}

func (f *fn) newValue() string {
	v := quoteLocal(fmt.Sprintf("t%d", f.valueN))
	f.valueN++
	return v
}

// newSlot allocates a fresh alloca register for name, overwriting any
// earlier binding. A VarDecl that reuses a name already in scope gets its
// own slot rather than reusing the old one, so earlier loads of the
// shadowed value stay valid.
func (f *fn) newSlot(name string) string {
	slot := quoteLocal(fmt.Sprintf("%s.slot%d", name, f.valueN))
	f.valueN++
	f.symtab[name] = slot
	return slot
}

func (f *fn) emit(format string, args ...interface{}) {
	f.current.emit(fmt.Sprintf(format, args...))
}

func (f *fn) genBlock(b *ast.Block) error {
	for _, stmt := range b.Statements {
		if err := f.genStmt(stmt); err != nil {
			return err
		}
		if f.current.terminated() {
			break
		}
	}
	return nil
}

func (f *fn) genStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		val, err := f.genExpr(s.Init)
		if err != nil {
			return err
		}
		slot := f.newSlot(s.Name)
		f.emit("%s = alloca i64", slot)
		f.emit("store i64 %s, i64* %s", val, slot)
		return nil

	case *ast.ExprStmt:
		_, err := f.genExpr(s.Expr)
		return err

	case *ast.ReturnStmt:
		val, err := f.genExpr(s.Value)
		if err != nil {
			return err
		}
		f.emit("ret i64 %s", val)
		return nil

	case *ast.IfStmt:
		return f.genIf(s)

	case *ast.WhileStmt:
		return f.genWhile(s)

	case *ast.Block:
		return f.genBlock(s)

	case *ast.RepeatStmt:
		return internalError(diagnostics.ErrC001, s.Tok, "RepeatStmt")
	}
	return nil
}

func (f *fn) genIf(s *ast.IfStmt) error {
	condVal, err := f.genExpr(s.Cond)
	if err != nil {
		return err
	}
	condBool := f.newValue()
	f.emit("%s = icmp ne i64 %s, 0", condBool, condVal)

	thenBlock := f.newBlock("then")
	mergeBlock := f.newBlock("if_cont")

	if s.Else != nil {
		elseBlock := f.newBlock("else")
		f.emit("br i1 %s, label %s, label %s", condBool, quoteLocal(thenBlock.label), quoteLocal(elseBlock.label))

		f.appendBlock(elseBlock)
		f.current = elseBlock
		if err := f.genBlock(s.Else); err != nil {
			return err
		}
		if !f.current.terminated() {
			f.emit("br label %s", quoteLocal(mergeBlock.label))
		}
	} else {
		f.emit("br i1 %s, label %s, label %s", condBool, quoteLocal(thenBlock.label), quoteLocal(mergeBlock.label))
	}

	f.appendBlock(thenBlock)
	f.current = thenBlock
	if err := f.genBlock(s.Then); err != nil {
		return err
	}
	if !f.current.terminated() {
		f.emit("br label %s", quoteLocal(mergeBlock.label))
	}

	f.appendBlock(mergeBlock)
	f.current = mergeBlock
	return nil
}

func (f *fn) genWhile(s *ast.WhileStmt) error {
	condBlock := f.newBlock("while_cond")
	bodyBlock := f.newBlock("while_body")
	afterBlock := f.newBlock("while_after")

	f.emit("br label %s", quoteLocal(condBlock.label))

	f.appendBlock(condBlock)
	f.current = condBlock
	condVal, err := f.genExpr(s.Cond)
	if err != nil {
		return err
	}
	condBool := f.newValue()
	f.emit("%s = icmp ne i64 %s, 0", condBool, condVal)
	f.emit("br i1 %s, label %s, label %s", condBool, quoteLocal(bodyBlock.label), quoteLocal(afterBlock.label))

	f.appendBlock(bodyBlock)
	f.current = bodyBlock
	if err := f.genBlock(s.Body); err != nil {
		return err
	}
	if !f.current.terminated() {
		f.emit("br label %s", quoteLocal(condBlock.label))
	}

	f.appendBlock(afterBlock)
	f.current = afterBlock
	return nil
}

func (f *fn) genExpr(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return fmt.Sprintf("%d", e.Value), nil

	case *ast.Variable:
		slot, ok := f.symtab[e.Name]
		if !ok {
			return "", internalError(diagnostics.ErrC003, e.Tok, e.Name)
		}
		v := f.newValue()
		f.emit("%s = load i64, i64* %s", v, slot)
		return v, nil

	case *ast.Assign:
		val, err := f.genExpr(e.Value)
		if err != nil {
			return "", err
		}
		slot, ok := f.symtab[e.Name]
		if !ok {
			return "", internalError(diagnostics.ErrC003, e.Tok, e.Name)
		}
		f.emit("store i64 %s, i64* %s", val, slot)
		return val, nil

	case *ast.Binary:
		return f.genBinary(e)

	case *ast.Unary:
		return f.genUnary(e)

	case *ast.Call:
		return f.genCall(e)

	case *ast.Pipe:
		return "", internalError(diagnostics.ErrC001, e.Tok, "PipeExpr")

	case *ast.Lambda:
		return "", internalError(diagnostics.ErrC001, e.Tok, "Lambda")
	}
	return "", internalError(diagnostics.ErrC001, expr.GetToken(), fmt.Sprintf("%T", expr))
}

var cmpOp = map[token.TokenType]string{
	token.LT: "slt", token.GT: "sgt", token.LE: "sle", token.GE: "sge",
	token.EQ: "eq", token.NE: "ne",
}

func (f *fn) genBinary(e *ast.Binary) (string, error) {
	lhs, err := f.genExpr(e.Left)
	if err != nil {
		return "", err
	}
	rhs, err := f.genExpr(e.Right)
	if err != nil {
		return "", err
	}

	v := f.newValue()
	switch e.Op {
	case token.PLUS:
		f.emit("%s = add i64 %s, %s", v, lhs, rhs)
		return v, nil
	case token.MINUS:
		f.emit("%s = sub i64 %s, %s", v, lhs, rhs)
		return v, nil
	case token.MUL:
		f.emit("%s = mul i64 %s, %s", v, lhs, rhs)
		return v, nil
	case token.DIV:
		f.emit("%s = sdiv i64 %s, %s", v, lhs, rhs)
		return v, nil
	case token.AND:
		// Bitwise, not short-circuited: both operands are always
		// evaluated (spec §9 Open Question 4).
		f.emit("%s = and i64 %s, %s", v, lhs, rhs)
		return v, nil
	case token.OR:
		f.emit("%s = or i64 %s, %s", v, lhs, rhs)
		return v, nil
	}

	if cmp, ok := cmpOp[e.Op]; ok {
		cmpVal := f.newValue()
		f.emit("%s = icmp %s i64 %s, %s", cmpVal, cmp, lhs, rhs)
		ext := f.newValue()
		f.emit("%s = zext i1 %s to i64", ext, cmpVal)
		return ext, nil
	}

	return "", internalError(diagnostics.ErrC001, e.Tok, fmt.Sprintf("operator %s", e.Op))
}

func (f *fn) genUnary(e *ast.Unary) (string, error) {
	operand, err := f.genExpr(e.Operand)
	if err != nil {
		return "", err
	}
	switch e.Op {
	case token.MINUS:
		v := f.newValue()
		f.emit("%s = sub i64 0, %s", v, operand)
		return v, nil
	case token.NOT:
		cmpVal := f.newValue()
		f.emit("%s = icmp eq i64 %s, 0", cmpVal, operand)
		v := f.newValue()
		f.emit("%s = zext i1 %s to i64", v, cmpVal)
		return v, nil
	}
	return "", internalError(diagnostics.ErrC001, e.Tok, fmt.Sprintf("operator %s", e.Op))
}

func (f *fn) genCall(e *ast.Call) (string, error) {
	if _, ok := f.funcs[e.Callee]; !ok {
		return "", internalError(diagnostics.ErrC002, e.Tok, e.Callee)
	}

	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		val, err := f.genExpr(a)
		if err != nil {
			return "", err
		}
		args[i] = "i64 " + val
	}

	v := f.newValue()
	f.emit("%s = call i64 %s(%s)", v, quoteGlobal(e.Callee), strings.Join(args, ", "))
	return v, nil
}
