package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"ocs-acceptance/internal/infra/cache"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Cache", func() {
	var (
		cacheInstance *cache.RistrettoCache
		ctx           context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		cacheInstance, err = cache.New(nil)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		cacheInstance.Close()
	})

	ginkgo.Context("Set and Get", func() {
		ginkgo.It("should return a stored fixture", func() {
			gomega.Expect(cacheInstance.Set(ctx, "messages:a.json", "table", 0)).To(gomega.BeTrue())

			retrieved, found := cacheInstance.Get(ctx, "messages:a.json")
			gomega.Expect(found).To(gomega.BeTrue())
			gomega.Expect(retrieved).To(gomega.Equal("table"))
		})

		ginkgo.It("should miss on a cancelled context", func() {
			cacheInstance.Set(ctx, "k", "v", 0)
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, found := cacheInstance.Get(cancelled, "k")
			gomega.Expect(found).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("Delete", func() {
		ginkgo.It("should remove the value", func() {
			cacheInstance.Set(ctx, "k", "v", 0)
			cacheInstance.Delete(ctx, "k")

			_, found := cacheInstance.Get(ctx, "k")
			gomega.Expect(found).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("GetOrSet", func() {
		ginkgo.It("should call the loader once for repeated lookups", func() {
			var calls int32
			loader := func() (any, error) {
				atomic.AddInt32(&calls, 1)
				return "loaded", nil
			}

			for i := 0; i < 3; i++ {
				value, err := cacheInstance.GetOrSet(ctx, "fixture", 0, loader)
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(value).To(gomega.Equal("loaded"))
			}
			gomega.Expect(atomic.LoadInt32(&calls)).To(gomega.Equal(int32(1)))
		})

		ginkgo.It("should share one load between concurrent callers", func() {
			var calls int32
			release := make(chan struct{})
			loader := func() (any, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return "loaded", nil
			}

			var wg sync.WaitGroup
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer ginkgo.GinkgoRecover()
					value, err := cacheInstance.GetOrSet(ctx, "shared", 0, loader)
					gomega.Expect(err).NotTo(gomega.HaveOccurred())
					gomega.Expect(value).To(gomega.Equal("loaded"))
				}()
			}
			gomega.Eventually(func() int32 { return atomic.LoadInt32(&calls) }).Should(gomega.Equal(int32(1)))
			close(release)
			wg.Wait()
		})

		ginkgo.It("should not cache loader errors", func() {
			_, err := cacheInstance.GetOrSet(ctx, "broken", 0, func() (any, error) {
				return nil, errors.New("boom")
			})
			gomega.Expect(err).To(gomega.MatchError("boom"))

			value, err := cacheInstance.GetOrSet(ctx, "broken", 0, func() (any, error) {
				return "fixed", nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(value).To(gomega.Equal("fixed"))
		})

		ginkgo.It("should fail on a cancelled context", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := cacheInstance.GetOrSet(cancelled, "k", 0, func() (any, error) { return "v", nil })
			gomega.Expect(err).To(gomega.MatchError(context.Canceled))
		})
	})
})
