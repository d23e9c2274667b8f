package core

import "context"

// ScoredIndex 是隐因子打分结果：矩阵下标 + 预测分数（降序返回）。
type ScoredIndex struct {
	Index int
	Score float64
}

// FactorOracle 是隐因子求解器的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由模型层（model）实现
//   - 对链路而言是不透明的已训练对象：内部数学不属于本仓库的契约
//   - Recommend 只做下标级打分，ID 翻译与已读过滤由召回层负责
//
// 实现：
//   - model.ALS 实现此接口（交替最小二乘，隐式反馈置信度加权）
type FactorOracle interface {
	// Fit 在 item×user 方向的交互矩阵上训练。
	Fit(ctx context.Context, itemUser *SparseMatrix) error

	// Recommend 为已映射的用户下标返回至多 n 个物品下标（按分数降序）。
	// userRow 是该用户在 user×item 矩阵中的一行（col -> weight），
	// 供实现参考；已读排除不在此处做，由召回层 over-fetch 后过滤。
	// 失败返回 error，调用方负责降级，不得向外透出。
	Recommend(userIdx int, userRow map[int]float64, n int) ([]ScoredIndex, error)

	// Trained 返回是否已完成训练。
	Trained() bool

	// Hyperparameters 返回训练超参（factors/regularization/iterations/alpha），
	// 用于 model_info 观测接口。
	Hyperparameters() map[string]float64
}
