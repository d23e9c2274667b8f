// Package model 提供隐因子模型实现。
// 链路只依赖 core.FactorOracle 接口；本包是其默认实现。
package model

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/mycontent/recserve/core"
)

// ALS 是隐式反馈交替最小二乘模型（置信度加权矩阵分解）。
//
// 训练：c_ui = 1 + alpha * r_ui，交替固定一侧因子求解另一侧的
// 正规方程。打分：score(u, i) = userFactor(u) · itemFactor(i)。
//
// 导出字段会随快照一起序列化；加载后的实例直接可服务，无需重训。
type ALS struct {
	Factors        int     `json:"factors"`
	Regularization float64 `json:"regularization"`
	Iterations     int     `json:"iterations"`
	Alpha          float64 `json:"alpha"`
	Seed           int64   `json:"seed"`

	UserFactors [][]float64 `json:"user_factors"`
	ItemFactors [][]float64 `json:"item_factors"`
	IsTrained   bool        `json:"is_trained"`
}

// NewALS 创建未训练的 ALS 模型；零值参数取默认超参。
func NewALS(factors, iterations int, regularization, alpha float64) *ALS {
	if factors <= 0 {
		factors = 100
	}
	if iterations <= 0 {
		iterations = 20
	}
	if regularization <= 0 {
		regularization = 0.01
	}
	if alpha <= 0 {
		alpha = 40
	}
	return &ALS{
		Factors:        factors,
		Regularization: regularization,
		Iterations:     iterations,
		Alpha:          alpha,
		Seed:           42,
	}
}

var _ core.FactorOracle = (*ALS)(nil)

// Fit 在 item×user 方向的矩阵上训练（与离线产出保持同一约定）。
func (m *ALS) Fit(ctx context.Context, itemUser *core.SparseMatrix) error {
	if itemUser == nil {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: nil interaction matrix")
	}
	nItems := itemUser.RowCount
	nUsers := itemUser.ColCount
	if nItems == 0 || nUsers == 0 {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: empty interaction matrix")
	}

	userItem := itemUser.Transpose()

	rng := rand.New(rand.NewSource(m.Seed))
	m.UserFactors = randomFactors(rng, nUsers, m.Factors)
	m.ItemFactors = randomFactors(rng, nItems, m.Factors)

	for iter := 0; iter < m.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.solveSide(m.UserFactors, m.ItemFactors, userItem)
		m.solveSide(m.ItemFactors, m.UserFactors, itemUser)
	}

	m.IsTrained = true
	return nil
}

// Recommend 为用户下标返回至多 n 个物品下标（分数降序，同分按下标升序）。
// 不做已读过滤；排除语义由召回层通过 over-fetch + 已读集实现。
func (m *ALS) Recommend(userIdx int, _ map[int]float64, n int) ([]core.ScoredIndex, error) {
	if !m.IsTrained {
		return nil, core.ErrOracleFailure
	}
	if userIdx < 0 || userIdx >= len(m.UserFactors) {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeOracleFailure,
			fmt.Sprintf("model: user index %d out of range", userIdx))
	}
	if n <= 0 {
		return nil, nil
	}

	uf := m.UserFactors[userIdx]
	scored := make([]core.ScoredIndex, 0, len(m.ItemFactors))
	for i, itf := range m.ItemFactors {
		s := dot(uf, itf)
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, core.ErrOracleFailure
		}
		scored = append(scored, core.ScoredIndex{Index: i, Score: s})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

func (m *ALS) Trained() bool { return m.IsTrained }

func (m *ALS) Hyperparameters() map[string]float64 {
	return map[string]float64{
		"factors":        float64(m.Factors),
		"regularization": m.Regularization,
		"iterations":     float64(m.Iterations),
		"alpha":          m.Alpha,
	}
}

// solveSide 固定 fixed 侧，逐行解 target 侧的正规方程：
// (YtY + Yt(C-I)Y + λI) x = Yt C p，p 为二值偏好向量。
func (m *ALS) solveSide(target, fixed [][]float64, mat *core.SparseMatrix) {
	f := m.Factors
	yty := gram(fixed, f)

	for r := 0; r < mat.RowCount; r++ {
		cols, vals := mat.Row(r)

		// A = YtY + λI，b = 0，再按非零元叠加置信度增量
		a := make([][]float64, f)
		b := make([]float64, f)
		for i := 0; i < f; i++ {
			a[i] = make([]float64, f)
			copy(a[i], yty[i])
			a[i][i] += m.Regularization
		}
		for k, c := range cols {
			conf := 1 + m.Alpha*vals[k]
			y := fixed[c]
			for i := 0; i < f; i++ {
				b[i] += conf * y[i]
				for j := 0; j < f; j++ {
					a[i][j] += (conf - 1) * y[i] * y[j]
				}
			}
		}
		solveInPlace(a, b, target[r])
	}
}

func randomFactors(rng *rand.Rand, n, f int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		row := make([]float64, f)
		for j := range row {
			row[j] = rng.NormFloat64() * 0.01
		}
		out[i] = row
	}
	return out
}

func gram(y [][]float64, f int) [][]float64 {
	out := make([][]float64, f)
	for i := range out {
		out[i] = make([]float64, f)
	}
	for _, row := range y {
		for i := 0; i < f; i++ {
			for j := 0; j < f; j++ {
				out[i][j] += row[i] * row[j]
			}
		}
	}
	return out
}

// solveInPlace 用部分主元高斯消元解 Ax=b，结果写入 x。
// A 与 b 会被原地修改。维度很小（因子数），不值得引线性代数库。
func solveInPlace(a [][]float64, b []float64, x []float64) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		if a[col][col] == 0 {
			continue
		}
		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		if a[r][r] != 0 {
			x[r] = sum / a[r][r]
		} else {
			x[r] = 0
		}
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
