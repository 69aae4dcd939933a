// Package chem loads reaction rules and answers pairwise reaction queries.
//
// A rule file holds one rule per line. Whitespace is ignored, '#' starts a
// comment and blank lines are skipped:
//
//	<s>{<q>}<sep1><s>{<q>} -> <s>{<q'>}<sep2><s>{<q'>}
//
// Species s and state q are hex bytes. The separator pair selects the kind:
//
//   - '+' then '=': [Combine], two free atoms bond
//   - '=' then '+': [Decompose], a bonded pair splits
//   - '+' then '+': [Excite], two free atoms change state only
//
// Species never change across the arrow. Malformed lines are logged and
// skipped; the remaining rules still load.
//
// [Table.Lookup] is symmetric: a rule written as "a + b" also matches a
// collision reported as (b, a), with the product states swapped to follow the
// caller's order.
package chem
