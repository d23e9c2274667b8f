package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分层（与服务层的 HTTP 映射）：
//   - UNAVAILABLE：模型未加载/快照源不可达，对外统一表现为服务不可用
//   - NOT_FOUND：资源不存在；未知用户不是错误，通过 fallback 路径处理
//   - ORACLE_FAILURE：隐因子打分失败，链路内部降级，不向调用方透出
//   - INVALID_INPUT：调用方参数非法，拒绝请求，不重试
//   - CORRUPT：快照不完整/解码失败，加载整体拒绝
type DomainError struct {
	Code    string
	Message string
	Module  string
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeUnavailable   = "UNAVAILABLE"
	ErrorCodeInvalidInput  = "INVALID_INPUT"
	ErrorCodeOracleFailure = "ORACLE_FAILURE"
	ErrorCodeCorrupt       = "CORRUPT"
	ErrorCodeNotSupported  = "NOT_SUPPORTED"
	ErrorCodeInternalError = "INTERNAL_ERROR"
)

// 模块名称常量
const (
	ModuleStore    = "store"
	ModuleSnapshot = "snapshot"
	ModuleServing  = "serving"
	ModuleModel    = "model"
	ModuleMetadata = "metadata"
	ModuleSink     = "sink"
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsCorrupt 检查错误是否为 CORRUPT（快照不完整或解码失败）
func IsCorrupt(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeCorrupt
	}
	return false
}

// 常用领域错误
var (
	// ErrModelUnavailable 表示快照尚未加载或加载失败，所有服务调用应拒绝
	ErrModelUnavailable = NewDomainError(ModuleServing, ErrorCodeUnavailable, "serving: model unavailable")

	// ErrOracleFailure 表示隐因子打分调用失败，链路内部应降级到热门路径
	ErrOracleFailure = NewDomainError(ModuleModel, ErrorCodeOracleFailure, "model: factor scoring failed")
)
