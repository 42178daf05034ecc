package hcl_adapter

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/burstmatrix/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// matrixRoot is the variable name a platform expression may traverse to
// reference an axis, as in `platform = matrix.os`.
const matrixRoot = "matrix"

// matrixSchema pulls exclude blocks out of a matrix body; whatever remains
// are the axis attributes.
var matrixSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "exclude"}},
}

// parsePlatform resolves a job's platform attribute. It returns either a
// literal platform or the name of the matrix axis the platform is taken from.
func parsePlatform(expr hcl.Expression) (string, string, hcl.Diagnostics) {
	if expr == nil {
		return "", "", nil
	}

	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() && traversal.RootName() == matrixRoot {
		if len(traversal) != 2 {
			return "", "", hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid platform reference",
				Detail:   "A platform taken from the matrix must reference exactly one axis, like matrix.os.",
				Subject:  expr.Range().Ptr(),
			}}
		}
		switch step := traversal[1].(type) {
		case hcl.TraverseAttr:
			return "", step.Name, nil
		case hcl.TraverseIndex:
			if step.Key.Type() == cty.String && step.Key.IsKnown() && !step.Key.IsNull() {
				return "", step.Key.AsString(), nil
			}
		}
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", "", diags
	}
	if val.IsNull() {
		return "", "", nil
	}
	s, err := toString(val)
	if err != nil {
		return "", "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid platform value",
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return s, "", nil
}

// parseMatrix converts a matrix block into axes in source order plus the
// decoded exclude entries.
func parseMatrix(hm *hclMatrix) (*model.Matrix, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	m := &model.Matrix{}

	content, axesBody, contentDiags := hm.Body.PartialContent(matrixSchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return m, diags
	}

	attrs, attrDiags := axesBody.JustAttributes()
	diags = append(diags, attrDiags...)

	for _, attr := range sortedAttributes(attrs) {
		values, valDiags := axisValues(attr)
		diags = append(diags, valDiags...)
		m.Axes = append(m.Axes, model.Axis{Name: attr.Name, Values: values})
	}

	for _, block := range content.Blocks {
		exAttrs, exDiags := block.Body.JustAttributes()
		diags = append(diags, exDiags...)

		exclusion := make(model.Exclusion, len(exAttrs))
		for name, attr := range exAttrs {
			val, valDiags := attr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			s, err := toString(val)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid exclude value",
					Detail:   fmt.Sprintf("The value for axis %q %s.", name, err),
					Subject:  attr.Expr.Range().Ptr(),
				})
				continue
			}
			exclusion[name] = s
		}
		m.Exclude = append(m.Exclude, exclusion)
	}

	return m, diags
}

// axisValues evaluates an axis attribute, which must be a list of primitives.
func axisValues(attr *hcl.Attribute) ([]string, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}

	ty := val.Type()
	if val.IsNull() || !(ty.IsTupleType() || ty.IsListType()) {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid matrix axis",
			Detail:   fmt.Sprintf("The matrix axis %q must be a list of values.", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}

	values := make([]string, 0, val.LengthInt())
	it := val.ElementIterator()
	for it.Next() {
		_, elem := it.Element()
		s, err := toString(elem)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid matrix value",
				Detail:   fmt.Sprintf("Each value of matrix axis %q %s.", attr.Name, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
			// Break after the first error to avoid spamming diagnostics.
			break
		}
		values = append(values, s)
	}
	return values, diags
}

// sortedAttributes orders attributes by their position in the source.
func sortedAttributes(attrs hcl.Attributes) []*hcl.Attribute {
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, attr)
	}
	slices.SortFunc(out, func(a, b *hcl.Attribute) int {
		return a.Range.Start.Byte - b.Range.Start.Byte
	})
	return out
}

// toString converts a primitive value to its string form.
func toString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", fmt.Errorf("must not be null")
	}
	if !val.Type().IsPrimitiveType() {
		return "", fmt.Errorf("must be a string, number or bool, got %s", val.Type().FriendlyName())
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot be converted to a string: %w", err)
	}
	return str.AsString(), nil
}
