package noise

import (
	"fmt"
	"runtime"
	"sync"
)

// chunkBounds returns the [start, end) byte ranges n bytes split into under
// size-byte strides, mirroring the encoder's and decoder's shared striding
// rule (§4.3.4): all but the last chunk are exactly size bytes.
func chunkBounds(n, size int) [][2]int {
	if n == 0 {
		return nil
	}
	bounds := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}

// sealChunks splits plaintext into MaxPlaintextChunk-sized pieces and seals
// each in parallel under sequential nonces starting at ph.txNonce. The
// counter only advances once every chunk has sealed successfully, so a
// mid-encode failure leaves it untouched.
func sealChunks(ph *postHandshakeState, plaintext []byte) ([]byte, error) {
	bounds := chunkBounds(len(plaintext), MaxPlaintextChunk)
	if len(bounds) == 0 {
		return nil, newError(KindInvalidData, fmt.Errorf("noise: refusing to seal an empty event payload"))
	}

	ph.txMu.Lock()
	base := ph.txNonce
	ph.txMu.Unlock()

	sealed := make([][]byte, len(bounds))
	if err := fanOut(len(bounds), func(i int) error {
		start, end := bounds[i][0], bounds[i][1]
		sealed[i] = ph.tx.Cipher().Encrypt(nil, base+uint64(i), nil, plaintext[start:end])
		return nil
	}); err != nil {
		return nil, err
	}

	ph.txMu.Lock()
	ph.txNonce = base + uint64(len(bounds))
	ph.txMu.Unlock()

	out := make([]byte, 0, totalLen(sealed))
	for _, s := range sealed {
		out = append(out, s...)
	}
	return out, nil
}

// openChunks splits an outer frame payload into MaxMessageLen-sized
// ciphertext chunks and opens each in parallel under sequential nonces
// starting at ph.rxNonce. Any chunk failure is fatal and leaves rxNonce
// unchanged; only a fully successful pass advances it.
func openChunks(ph *postHandshakeState, ciphertext []byte) ([]byte, error) {
	bounds := chunkBounds(len(ciphertext), MaxMessageLen)
	if len(bounds) == 0 {
		return nil, newError(KindInvalidData, fmt.Errorf("noise: empty outer frame payload"))
	}

	ph.rxMu.Lock()
	base := ph.rxNonce
	ph.rxMu.Unlock()

	opened := make([][]byte, len(bounds))
	err := fanOut(len(bounds), func(i int) error {
		start, end := bounds[i][0], bounds[i][1]
		plain, err := ph.rx.Cipher().Decrypt(nil, base+uint64(i), nil, ciphertext[start:end])
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		opened[i] = plain
		return nil
	})
	if err != nil {
		return nil, newError(KindInvalidData, fmt.Errorf("noise: opening AEAD chunk: %w", err))
	}

	ph.rxMu.Lock()
	ph.rxNonce = base + uint64(len(bounds))
	ph.rxMu.Unlock()

	out := make([]byte, 0, totalLen(opened))
	for _, p := range opened {
		out = append(out, p...)
	}
	return out, nil
}

// fanOut runs work(i) for i in [0,n) across a worker pool bounded by
// GOMAXPROCS, returning the first error encountered (if any) after every
// goroutine has finished. It is used for the within-event chunk
// parallelism §5 allows: the stateless transport cipher takes an explicit
// nonce per call, so concurrent calls are safe as long as the nonce
// assignment itself stays sequential and deterministic, which it is here
// (chunk i always uses base+i regardless of completion order).
func fanOut(n int, work func(i int) error) error {
	if n == 1 {
		return work(0)
	}

	sem := make(chan struct{}, max(1, runtime.GOMAXPROCS(0)))
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := range n {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = work(i)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func totalLen(bufs [][]byte) int {
	n := 0
	for _, b := range bufs {
		n += len(b)
	}
	return n
}
