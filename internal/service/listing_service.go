package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/repository"
)

// ListingService 课程组全量列表缓存
// 进程内单实例：持有一份序列化快照与其内容指纹，读未命中时同步重建，
// 显式失效后下次读取触发重建
type ListingService interface {
	// Listing 返回缓存的序列化列表与指纹；无有效缓存时先同步重建
	Listing(ctx context.Context) ([]byte, string, error)
	// Hash 返回指纹，与 Listing 共享同一份底层缓存值
	Hash(ctx context.Context) (string, error)
	// Invalidate 清空缓存；不做任何 I/O，不会失败
	Invalidate()
}

type listingService struct {
	repo   *repository.Repository
	logger *zap.Logger

	// mu 仅保护下面四个字段；取数与序列化在锁外进行
	mu      sync.RWMutex
	payload []byte
	hash    string
	valid   bool
	// gen 失效代数。每次 Invalidate 递增；重建只安装与出发时同代的结果，
	// 保证重建期间到达的失效不会被随后安装的旧快照覆盖
	gen uint64

	// sf 保证同一代数下同一时刻至多一次重建，并发未命中共享同一次结果
	sf singleflight.Group
}

// NewListingService 创建列表缓存服务（进程启动时构造一次，按引用注入）
func NewListingService(repo *repository.Repository, logger *zap.Logger) ListingService {
	return &listingService{repo: repo, logger: logger}
}

type listingValue struct {
	payload []byte
	hash    string
}

func (s *listingService) Listing(ctx context.Context) ([]byte, string, error) {
	s.mu.RLock()
	if s.valid {
		payload, hash := s.payload, s.hash
		s.mu.RUnlock()
		return payload, hash, nil
	}
	s.mu.RUnlock()

	v, err := s.rebuild(ctx)
	if err != nil {
		return nil, "", err
	}
	return v.payload, v.hash, nil
}

func (s *listingService) Hash(ctx context.Context) (string, error) {
	_, hash, err := s.Listing(ctx)
	return hash, err
}

func (s *listingService) Invalidate() {
	s.mu.Lock()
	s.payload = nil
	s.hash = ""
	s.valid = false
	s.gen++
	s.mu.Unlock()

	s.logger.Info("课程列表缓存已失效")
}

// errRebuildSuperseded 重建期间缓存被失效，本轮结果作废、需按新代数重来
var errRebuildSuperseded = errors.New("重建结果已被后续失效作废")

// rebuild 重建缓存：取全量课程组、序列化、计算指纹，最后整体安装。
// 重建一旦开始就运行到完成，不随单个请求的取消而中断；但重建期间
// 若发生失效，结果被丢弃并按新代数重建，失效不会被旧快照覆盖。
func (s *listingService) rebuild(ctx context.Context) (listingValue, error) {
	for {
		v, err := s.rebuildOnce(ctx)
		if errors.Is(err, errRebuildSuperseded) {
			continue
		}
		return v, err
	}
}

func (s *listingService) rebuildOnce(ctx context.Context) (listingValue, error) {
	// 出发时记录代数：读 valid 与 gen 必须在同一把读锁内
	s.mu.RLock()
	if s.valid {
		cached := listingValue{payload: s.payload, hash: s.hash}
		s.mu.RUnlock()
		return cached, nil
	}
	gen := s.gen
	s.mu.RUnlock()

	// 代数编入 singleflight 键：失效后的读者不会搭上失效前的重建
	v, err, _ := s.sf.Do(fmt.Sprintf("listing@%d", gen), func() (interface{}, error) {
		// 竞争进入时前一次重建可能刚完成，先复查
		s.mu.RLock()
		if s.valid {
			cached := listingValue{payload: s.payload, hash: s.hash}
			s.mu.RUnlock()
			return cached, nil
		}
		s.mu.RUnlock()

		// 重建不归属于任何单个请求，首个触发者被取消也不中断取数
		groups, err := s.repo.CourseGroup.ListWithCourses(context.WithoutCancel(ctx))
		if err != nil {
			s.logger.Error("重建课程列表缓存失败", zap.Error(err))
			return listingValue{}, err
		}

		payload, err := json.Marshal(groups)
		if err != nil {
			s.logger.Error("序列化课程列表失败", zap.Error(err))
			return listingValue{}, err
		}

		sum := sha256.Sum256(payload)
		fresh := listingValue{payload: payload, hash: hex.EncodeToString(sum[:])}

		// 仅指针交换持有写锁，重建不阻塞读者；
		// 取数期间缓存被失效则丢弃本轮结果，保持无效状态
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			s.logger.Info("重建期间缓存被失效，丢弃本轮快照", zap.Uint64("gen", gen))
			return listingValue{}, errRebuildSuperseded
		}
		s.payload = fresh.payload
		s.hash = fresh.hash
		s.valid = true
		s.mu.Unlock()

		s.logger.Info("课程列表缓存重建完成",
			zap.Int("groups", len(groups)),
			zap.Int("bytes", len(fresh.payload)),
			zap.String("hash", fresh.hash),
		)
		return fresh, nil
	})
	if err != nil {
		return listingValue{}, err
	}
	return v.(listingValue), nil
}
