package render

import "errors"

// errGroupDesync is reported when one fragment-shader invocation in a
// group yields TokenSynchronize while another member of the same group
// does not, at the same step (spec §4.5: "otherwise the pipeline reports
// a programmer-error failure").
var errGroupDesync = errors.New("render: group members disagree on synchronize")
