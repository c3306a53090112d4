package graph

// Optimize rewrites g's DAG in place: inverse-transpose elimination,
// then transpose-into-matmul fusion, then a dead-node sweep over whatever
// the fusion pass orphaned. Requires a graph that topo_sort has already
// succeeded on. Resets Sorted to false, since node removal invalidates any
// prior ordering; callers that need order afterward must call TopoSort
// again, and ShapeInfer again since MatMul attribute flips change output
// shapes.
func Optimize(g *Graph) error {
	if !g.sorted {
		return &Error{Kind: KindInvariantViolation, Details: "optimize requires topo_sort to have succeeded"}
	}

	removedOps := make(map[*Operator]bool)
	removedTensors := make(map[*Tensor]bool)

	rewriteInverseTranspose(g, removedOps, removedTensors)
	seeds := rewriteTransMatFusion(g, removedOps)
	deadNodeSweep(seeds, removedOps, removedTensors)

	if len(removedOps) > 0 {
		g.ops = filterOps(g.ops, removedOps)
	}
	if len(removedTensors) > 0 {
		g.tensors = filterTensors(g.tensors, removedTensors)
	}
	g.sorted = false
	return nil
}

// rewriteInverseTranspose splices out every Transpose u immediately
// followed by a Transpose v with is_inverse(u, v). Operates over a
// snapshot of ops and, per operator, a snapshot of its successors, so that
// splicing earlier in the pass doesn't perturb later iterations.
func rewriteInverseTranspose(g *Graph, removedOps map[*Operator]bool, removedTensors map[*Tensor]bool) {
	snapshot := append([]*Operator(nil), g.ops...)
	for _, u := range snapshot {
		if removedOps[u] {
			continue
		}
		ut, ok := u.variant.(*Transpose)
		if !ok {
			continue
		}

		succSnapshot := append([]*Operator(nil), u.successors...)
		for _, v := range succSnapshot {
			if removedOps[v] {
				continue
			}
			vt, ok := v.variant.(*Transpose)
			if !ok {
				continue
			}
			if !IsInverse(ut, vt) {
				continue
			}

			x := u.inputs[0]
			y := u.outputs[0]
			z := v.outputs[0]
			px := x.Source()

			consumers := append([]*Operator(nil), z.Targets()...)
			for _, w := range consumers {
				w.replaceInput(z, x)
				z.RemoveTarget(w)
				w.removePredecessor(v)
				x.AddTarget(w)
				if px != nil {
					px.addSuccessor(w)
					w.addPredecessor(px)
				}
			}

			if px != nil {
				px.removeSuccessor(u)
			}
			x.RemoveTarget(u)
			y.SetSource(nil)
			z.SetSource(nil)

			removedOps[u] = true
			removedOps[v] = true
			removedTensors[y] = true
			removedTensors[z] = true
			break
		}
	}
}

// rewriteTransMatFusion folds every Transpose t with is_trans_mat(t) == 1
// into each MatMul successor that consumes its output directly, flipping
// the matching trans flag and rewiring the MatMul to read t's input. It
// returns the output tensor of every Transpose that fused at least once, as
// dead-node sweep seeds: once all of a Transpose's consumers are fused
// away, its output has no remaining targets and the Transpose itself is a
// removal candidate.
func rewriteTransMatFusion(g *Graph, removedOps map[*Operator]bool) []*Tensor {
	var seeds []*Tensor
	snapshot := append([]*Operator(nil), g.ops...)
	for _, t := range snapshot {
		if removedOps[t] {
			continue
		}
		tt, ok := t.variant.(*Transpose)
		if !ok {
			continue
		}
		if IsTransMat(tt) != 1 {
			continue
		}

		tOut := t.outputs[0]
		tIn := t.inputs[0]
		pt := tIn.Source()

		fused := false
		succSnapshot := append([]*Operator(nil), t.successors...)
		for _, m := range succSnapshot {
			if removedOps[m] {
				continue
			}
			mm, ok := m.variant.(*MatMul)
			if !ok {
				continue
			}

			switch {
			case len(m.inputs) > 0 && m.inputs[0] == tOut:
				mm.TransA = !mm.TransA
			case len(m.inputs) > 1 && m.inputs[1] == tOut:
				mm.TransB = !mm.TransB
			default:
				continue
			}

			m.replaceInput(tOut, tIn)
			tOut.RemoveTarget(m)
			m.removePredecessor(t)
			t.removeSuccessor(m)
			tIn.AddTarget(m)
			if pt != nil {
				pt.addSuccessor(m)
				m.addPredecessor(pt)
			}
			fused = true
		}
		if fused {
			seeds = append(seeds, tOut)
		}
	}
	return seeds
}

// deadNodeSweep drains a worklist of tensors with zero consumers. For each
// such tensor y with a surviving producer p: p is detached from all its
// predecessors, each input of p is detached from p (and re-queued if that
// was its last consumer), and p/y are marked for removal. Queue order
// doesn't affect the final graph, since each step only removes nodes.
func deadNodeSweep(seeds []*Tensor, removedOps map[*Operator]bool, removedTensors map[*Tensor]bool) {
	queued := make(map[*Tensor]bool, len(seeds))
	worklist := make([]*Tensor, 0, len(seeds))
	for _, y := range seeds {
		if len(y.targets) == 0 && !removedTensors[y] {
			worklist = append(worklist, y)
			queued[y] = true
		}
	}

	for len(worklist) > 0 {
		y := worklist[0]
		worklist = worklist[1:]
		if removedTensors[y] {
			continue
		}
		p := y.Source()
		if p == nil || removedOps[p] {
			continue
		}

		for _, pred := range append([]*Operator(nil), p.predecessors...) {
			pred.removeSuccessor(p)
		}
		for _, in := range p.inputs {
			in.RemoveTarget(p)
			if len(in.targets) == 0 && !queued[in] && !removedTensors[in] {
				worklist = append(worklist, in)
				queued[in] = true
			}
		}
		p.predecessors = nil
		p.successors = nil

		removedOps[p] = true
		removedTensors[y] = true
	}
}

func filterOps(ops []*Operator, removed map[*Operator]bool) []*Operator {
	out := ops[:0]
	for _, op := range ops {
		if !removed[op] {
			out = append(out, op)
		}
	}
	return out
}

func filterTensors(tensors []*Tensor, removed map[*Tensor]bool) []*Tensor {
	out := tensors[:0]
	for _, t := range tensors {
		if !removed[t] {
			out = append(out, t)
		}
	}
	return out
}
