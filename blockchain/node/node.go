package node

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/vitreusNetwork/VTRS_core/blockchain/core/chain"
	"github.com/vitreusNetwork/VTRS_core/blockchain/core/slot"
	"github.com/vitreusNetwork/VTRS_core/blockchain/core/txpool"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state/kv"
	vtrsflags "github.com/vitreusNetwork/VTRS_core/cmd/vitreus/flags"
	"github.com/vitreusNetwork/VTRS_core/events"
	"github.com/vitreusNetwork/VTRS_core/metrics"
	"github.com/vitreusNetwork/VTRS_core/rpc/api"
	"github.com/vitreusNetwork/VTRS_core/shared/cmd"
	"github.com/vitreusNetwork/VTRS_core/shared/params"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
	"github.com/vitreusNetwork/VTRS_core/shared/version"
)

var log = logrus.WithField("prefix", "node")

// VitreusNode runs the block executive over a durable store: it owns the
// database, the extrinsic pool, the slot ticker driving block production and
// the metrics endpoint, and handles the lifecycle of the entire system.
type VitreusNode struct {
	cliCtx *cli.Context
	ctx    context.Context
	cancel context.CancelFunc
	lock   sync.RWMutex
	stop   chan struct{} // Channel to wait for termination notifications.

	db      *kv.Store
	bus     *events.Bus
	chain   *chain.Service
	pool    *txpool.Pool
	api     api.EnergyFeeAPI
	metrics *metrics.Service

	forgeErr   error
	forgeErrMu sync.RWMutex
}

// poolValidator gates pool admission with the chain's pre-dispatch fee check
// against canonical state.
type poolValidator struct {
	chain *chain.Service
}

func (v poolValidator) PreDispatch(ext *types.Extrinsic) (uint64, error) {
	m, err := v.chain.Reader()
	if err != nil {
		return 0, err
	}
	return m.Check.PreDispatch(ext)
}

// New creates a new node instance, sets up configuration options, and wires
// every required service to the node.
func New(cliCtx *cli.Context) (*VitreusNode, error) {
	// load chain config from file if special file has been given
	if err := configureChainConfig(cliCtx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(cliCtx.Context)
	node := &VitreusNode{
		cliCtx: cliCtx,
		ctx:    ctx,
		cancel: cancel,
		stop:   make(chan struct{}),
		bus:    new(events.Bus),
	}

	if err := node.startDB(cliCtx); err != nil {
		cancel()
		return nil, err
	}

	node.chain = chain.NewService(node.db, node.bus)
	node.pool = txpool.NewPool(poolValidator{chain: node.chain})
	node.api = api.NewEnergyFeeService(node.chain)

	if err := node.applyGenesis(cliCtx); err != nil {
		cancel()
		return nil, err
	}

	node.registerMetrics(cliCtx)

	return node, nil
}

// Pool exposes the extrinsic pool for submission surfaces.
func (n *VitreusNode) Pool() *txpool.Pool {
	return n.pool
}

// API exposes the in-process query surface.
func (n *VitreusNode) API() api.EnergyFeeAPI {
	return n.api
}

// Start kicks off block production and blocks until the node is interrupted.
func (n *VitreusNode) Start() {
	log.WithField("Version", version.Version()).Info("Starting vitreus node")

	n.lock.Lock()

	n.metrics.Start()

	slot.NewSlotTicker()
	ticker := slot.Ticker()
	if err := ticker.Start(time.Now()); err != nil {
		n.lock.Unlock()
		log.WithError(err).Error("Can't start slot ticker")
		return
	}

	go n.produceBlocks(ticker)

	stop := n.stop
	n.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")

		go n.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("Panic closing the vitreus node")
	}()

	// Wait for stop channel to be closed.
	<-stop
}

// Close handles graceful shutdown of the system.
func (n *VitreusNode) Close() {
	n.lock.Lock()
	defer n.lock.Unlock()

	log.Info("Stopping vitreus node")

	if ticker := slot.Ticker(); ticker != nil {
		ticker.Stop()
	}
	n.pool.StopWriting()

	if err := n.metrics.Stop(); err != nil {
		log.Errorf("Failed to stop metrics server: %v", err)
	}

	if err := n.db.Close(); err != nil {
		log.Errorf("Failed to close database: %v", err)
	}

	n.cancel()
	close(n.stop)
}

// produceBlocks forges one block per slot tick until the node stops.
func (n *VitreusNode) produceBlocks(ticker *slot.SlotTicker) {
	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C():
			err := n.forgeBlock()
			n.setForgeErr(err)
			if err != nil {
				log.WithError(err).Error("Block forging failed")
			}
		}
	}
}

// forgeBlock drains the priced queue into a block. The queue is sorted fee
// first, so once the block weight is exhausted the remainder waits for the
// next slot.
func (n *VitreusNode) forgeBlock() error {
	if _, err := n.chain.StartBlock(); err != nil {
		return errors.Wrap(err, "can not open block")
	}

	queue := n.pool.GetPricedQueue()
	handled := make([]*types.Extrinsic, 0, len(queue))
	for _, data := range queue {
		ext := data.GetExtrinsic()

		err := n.chain.ApplyExtrinsic(ext)
		if errors.Is(err, runtime.ErrExhaustsResources) {
			break
		}
		if err != nil {
			log.WithError(err).Debugf("Extrinsic %s dropped from block", ext.Hash().Hex())
		}

		// applied or permanently rejected, either way it leaves the pool
		handled = append(handled, ext)
	}

	if err := n.pool.Reserve(handled); err != nil {
		log.WithError(err).Error("Can't reserve extrinsics")
	}

	if _, err := n.chain.FinalizeBlock(); err != nil {
		n.pool.RollbackReserved()
		return errors.Wrap(err, "can not finalize block")
	}

	n.pool.FlushReserved(true)
	return nil
}

func (n *VitreusNode) setForgeErr(err error) {
	n.forgeErrMu.Lock()
	n.forgeErr = err
	n.forgeErrMu.Unlock()
}

func (n *VitreusNode) registerMetrics(cliCtx *cli.Context) {
	addr := cliCtx.String(vtrsflags.MonitoringAddrFlag.Name)
	n.metrics = metrics.New(addr)

	n.metrics.RegisterHealthCheck("database", func() error {
		_, err := n.chain.BlockNumber()
		return err
	})
	n.metrics.RegisterHealthCheck("block-producer", func() error {
		n.forgeErrMu.RLock()
		defer n.forgeErrMu.RUnlock()
		return n.forgeErr
	})
}

func (n *VitreusNode) startDB(cliCtx *cli.Context) error {
	baseDir := cliCtx.String(cmd.DataDirFlag.Name)
	dbPath := filepath.Join(baseDir, kv.VitreusNodeDbDirName)
	clearDB := cliCtx.Bool(cmd.ClearDB.Name)
	forceClearDB := cliCtx.Bool(cmd.ForceClearDB.Name)

	log.WithField("database-path", dbPath).Info("Checking DB")

	dbConfig := &kv.Config{
		InitialMMapSize: cliCtx.Int(cmd.BoltMMapInitialSizeFlag.Name),
	}
	d, err := kv.NewKVStore(n.ctx, dbPath, dbConfig)
	if err != nil {
		return err
	}

	clearDBConfirmed := false
	if clearDB && !forceClearDB {
		actionText := "This will delete your vitreus chain database stored in your data directory. " +
			"Your database backups will not be removed - do you want to proceed? (Y/N)"
		deniedText := "Database will not be deleted. No changes have been made."
		clearDBConfirmed, err = cmd.ConfirmAction(actionText, deniedText)
		if err != nil {
			return err
		}
	}

	if clearDBConfirmed || forceClearDB {
		log.Warning("Removing database")
		if err := d.Close(); err != nil {
			return errors.Wrap(err, "could not close db prior to clearing")
		}
		if err := d.ClearDB(); err != nil {
			return errors.Wrap(err, "could not clear database")
		}
		d, err = kv.NewKVStore(n.ctx, dbPath, dbConfig)
		if err != nil {
			return errors.Wrap(err, "could not create new database")
		}
	}

	n.db = d
	return nil
}

// applyGenesis seeds canonical state from the genesis file the first time
// the node starts over an empty database.
func (n *VitreusNode) applyGenesis(cliCtx *cli.Context) error {
	path := cliCtx.String(cmd.GenesisPathFlag.Name)
	if path == "" {
		path = params.VitreusConfig().GenesisPath
	}
	if path == "" {
		number, err := n.chain.BlockNumber()
		if err != nil {
			return err
		}
		if number == 0 {
			return errors.New("no genesis file given for an empty database")
		}
		return nil
	}

	genesis, err := chain.LoadGenesisFile(path)
	if err != nil {
		return err
	}

	err = n.chain.ApplyGenesis(genesis)
	if errors.Is(err, chain.ErrAlreadyInitialized) {
		log.Debug("Genesis already applied, skipping")
		return nil
	}
	return err
}
