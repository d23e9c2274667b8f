package core

import "sort"

// Entry 是稀疏矩阵的一个非零元（三元组形式，作为构建输入）。
type Entry struct {
	Row   int
	Col   int
	Value float64
}

// SparseMatrix 是 CSR（行压缩）格式的稀疏矩阵。
// 约定：同一 (row, col) 只出现一次（构建前已聚合）；每行内列号升序。
// 快照需要同时持久化 user×item 与 item×user 两个方向，
// 两者的非零元必须互为转置（隐因子训练在转置方向上进行）。
type SparseMatrix struct {
	RowCount int       `json:"rows"`
	ColCount int       `json:"cols"`
	RowPtr   []int     `json:"row_ptr"`
	ColIdx   []int     `json:"col_idx"`
	Values   []float64 `json:"values"`
}

// NewSparseMatrix 从三元组构建 CSR 矩阵。
// 重复的 (row, col) 会累加 value；行内按列号排序，保证两个方向
// 的遍历顺序确定。
func NewSparseMatrix(rows, cols int, entries []Entry) *SparseMatrix {
	// 聚合重复元
	type key struct{ r, c int }
	agg := make(map[key]float64, len(entries))
	for _, e := range entries {
		agg[key{e.Row, e.Col}] += e.Value
	}

	merged := make([]Entry, 0, len(agg))
	for k, v := range agg {
		merged = append(merged, Entry{Row: k.r, Col: k.c, Value: v})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Row != merged[j].Row {
			return merged[i].Row < merged[j].Row
		}
		return merged[i].Col < merged[j].Col
	})

	m := &SparseMatrix{
		RowCount: rows,
		ColCount: cols,
		RowPtr:   make([]int, rows+1),
		ColIdx:   make([]int, 0, len(merged)),
		Values:   make([]float64, 0, len(merged)),
	}
	for _, e := range merged {
		m.RowPtr[e.Row+1]++
		m.ColIdx = append(m.ColIdx, e.Col)
		m.Values = append(m.Values, e.Value)
	}
	for i := 1; i <= rows; i++ {
		m.RowPtr[i] += m.RowPtr[i-1]
	}
	return m
}

// NNZ 返回非零元个数。
func (m *SparseMatrix) NNZ() int { return len(m.Values) }

// Row 返回第 i 行的列号和值（CSR 内部切片的子视图，调用方不得修改）。
func (m *SparseMatrix) Row(i int) (cols []int, vals []float64) {
	if i < 0 || i >= m.RowCount {
		return nil, nil
	}
	start, end := m.RowPtr[i], m.RowPtr[i+1]
	return m.ColIdx[start:end], m.Values[start:end]
}

// RowMap 返回第 i 行的 map 视图（col -> value），用于打分时快速查表。
func (m *SparseMatrix) RowMap(i int) map[int]float64 {
	cols, vals := m.Row(i)
	out := make(map[int]float64, len(cols))
	for k, c := range cols {
		out[c] = vals[k]
	}
	return out
}

// Transpose 返回转置矩阵（新分配，非视图）。
func (m *SparseMatrix) Transpose() *SparseMatrix {
	t := &SparseMatrix{
		RowCount: m.ColCount,
		ColCount: m.RowCount,
		RowPtr:   make([]int, m.ColCount+1),
		ColIdx:   make([]int, len(m.ColIdx)),
		Values:   make([]float64, len(m.Values)),
	}
	for _, c := range m.ColIdx {
		t.RowPtr[c+1]++
	}
	for i := 1; i <= m.ColCount; i++ {
		t.RowPtr[i] += t.RowPtr[i-1]
	}
	// next[c] 是转置矩阵第 c 行的下一个写入位置
	next := make([]int, m.ColCount)
	copy(next, t.RowPtr[:m.ColCount])
	for r := 0; r < m.RowCount; r++ {
		start, end := m.RowPtr[r], m.RowPtr[r+1]
		for k := start; k < end; k++ {
			c := m.ColIdx[k]
			pos := next[c]
			t.ColIdx[pos] = r
			t.Values[pos] = m.Values[k]
			next[c]++
		}
	}
	return t
}
