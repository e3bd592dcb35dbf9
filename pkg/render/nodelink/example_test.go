package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/render/nodelink"
)

func ExampleToDOT() {
	ds := dataset.Dataset{
		Themes:   []dataset.Theme{{ID: "health", Name: "Health"}},
		Barriers: []dataset.Barrier{{ID: "clinics", Name: "Clinics", ThemeID: "health"}},
	}
	fmt.Print(nodelink.ToDOT(ds, nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=LR;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=18, margin="0.2,0.1"];
	//   ranksep=0.8;
	//   nodesep=0.2;
	//
	//   "theme:health" [label="Health", fontname="Helvetica-Bold", penwidth=2];
	//   "barrier:clinics" [label="Clinics"];
	//   "theme:health" -> "barrier:clinics";
	// }
}
