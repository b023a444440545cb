// Package main provides the game server binary: it loads content, restores
// the save slot, and runs an interactive battle loop on stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/herosdawn/herosdawn/internal/config"
	"github.com/herosdawn/herosdawn/internal/game/battle"
	"github.com/herosdawn/herosdawn/internal/game/item"
	"github.com/herosdawn/herosdawn/internal/game/quest"
	"github.com/herosdawn/herosdawn/internal/game/session"
	"github.com/herosdawn/herosdawn/internal/observability"
	"github.com/herosdawn/herosdawn/internal/storage"
	"github.com/herosdawn/herosdawn/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerName := flag.String("player", "", "player name (default Hero)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	contentStart := time.Now()
	registry, err := item.LoadRegistry(cfg.Content.ItemsDir)
	if err != nil {
		logger.Fatal("loading item templates", zap.Error(err))
	}
	monsters, err := battle.LoadMonsters(cfg.Content.MonstersDir)
	if err != nil {
		logger.Fatal("loading monsters", zap.Error(err))
	}
	quests, err := quest.LoadQuests(cfg.Content.QuestsDir)
	if err != nil {
		logger.Fatal("loading quests", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("templates", len(registry.All())),
		zap.Int("monsters", len(monsters)),
		zap.Int("quests", len(quests)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	saves, cleanup, err := newSaveStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing save store", zap.Error(err))
	}
	defer cleanup()

	sess, err := session.New(session.Deps{
		Config:     cfg.Game,
		Logger:     logger,
		Registry:   registry,
		Monsters:   monsters,
		Quests:     quests,
		Saves:      saves,
		PlayerName: *playerName,
	})
	if err != nil {
		logger.Fatal("creating session", zap.Error(err))
	}
	if sess.Load(ctx) {
		fmt.Printf("welcome back, %s (level %d)\n", sess.Character().Name(), sess.Character().Level())
	} else {
		fmt.Printf("a new adventure begins, %s\n", sess.Character().Name())
	}

	logger.Info("game server ready", zap.Duration("elapsed", time.Since(start)))
	repl(ctx, sess)
}

// newSaveStore builds the configured save backend.
func newSaveStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.SaveStore, func(), error) {
	switch cfg.Game.SaveBackend {
	case "postgres":
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		return postgres.NewSaveRepository(pool), pool.Close, nil
	default:
		fs, err := storage.NewFileStore(cfg.Game.SavePath)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

func repl(ctx context.Context, sess *session.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("commands: stats, inv, quests, accept <quest>, claim <quest>, battle <stage>, attack, defend, special, escape, use <item>, shop, buy <n>, sell <item>, save, quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "stats":
			printStats(sess)
		case "inv":
			printInventory(sess)
		case "quests":
			printQuests(sess)
		case "accept":
			if len(fields) < 2 || !sess.Quests().Accept(fields[1]) {
				fmt.Println("cannot accept that quest")
			}
		case "claim":
			if len(fields) < 2 || !sess.Quests().Claim(fields[1], sess.Character(), sess.Store(), sess.Registry()) {
				fmt.Println("cannot claim that quest")
			}
		case "battle":
			stage := 1
			if len(fields) > 1 {
				if n, err := strconv.Atoi(fields[1]); err == nil {
					stage = n
				}
			}
			b, err := sess.StartBattle(stage)
			if err != nil {
				fmt.Println("cannot start battle:", err)
				continue
			}
			for _, e := range b.Log() {
				fmt.Println(e.Message)
			}
		case "attack", "defend", "special", "escape":
			submit(sess, battle.ActionKind(fields[0]))
		case "use":
			if len(fields) < 2 {
				fmt.Println("usage: use <instance id>")
				continue
			}
			if !sess.UseItem(fields[1]) {
				fmt.Println("cannot use that")
			}
		case "shop":
			stock := sess.RefreshShop(4)
			for i, inst := range stock {
				fmt.Printf("  %d) %s (%s) - %d gold\n",
					i, inst.Template().Name(), inst.Template().Rarity().Name, inst.Template().Value())
			}
		case "buy":
			if len(fields) < 2 {
				fmt.Println("usage: buy <index>")
				continue
			}
			i, err := strconv.Atoi(fields[1])
			if err != nil || !sess.BuyShopItem(i) {
				fmt.Println("cannot buy that")
			}
		case "sell":
			if len(fields) < 2 {
				fmt.Println("usage: sell <instance id> [count]")
				continue
			}
			count := 1
			if len(fields) > 2 {
				if n, err := strconv.Atoi(fields[2]); err == nil {
					count = n
				}
			}
			if earned, ok := sess.SellItem(fields[1], count); ok {
				fmt.Printf("sold for %d gold\n", earned)
			} else {
				fmt.Println("cannot sell that")
			}
		case "save":
			if err := sess.Save(ctx); err != nil {
				fmt.Println("save failed:", err)
			} else {
				fmt.Println("saved")
			}
		case "quit":
			if err := sess.Save(ctx); err != nil {
				fmt.Println("save failed:", err)
			}
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func submit(sess *session.Session, kind battle.ActionKind) {
	res, err := sess.SubmitBattleAction(kind)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, e := range res.Entries {
		fmt.Println(e.Message)
	}
	if res.State != battle.StateOngoing {
		fmt.Println("battle over:", res.State)
	}
}

func printStats(sess *session.Session) {
	c := sess.Character()
	fmt.Printf("%s  Lv %d  HP %d/%d  MP %d/%d  EXP %d/%d  gold %d\n",
		c.Name(), c.Level(), c.HP(), c.MaxHP(), c.MP(), c.MaxMP(), c.Exp(), c.MaxExp(),
		sess.Store().Gold())
}

func printInventory(sess *session.Session) {
	items := sess.Store().Items()
	fmt.Printf("inventory %d/%d slots, total value %d\n",
		sess.Store().SlotsUsed(), sess.Store().MaxSlots(), sess.Store().TotalValue())
	for _, inst := range items {
		marker := " "
		if inst.Equipped() {
			marker = "E"
		}
		fmt.Printf("  [%s] %s x%d (%s) %s\n",
			marker, inst.Template().Name(), inst.Count(),
			inst.Template().Rarity().Name, inst.ID())
	}
}

func printQuests(sess *session.Session) {
	for _, d := range sess.Quests().Quests() {
		status, _ := sess.Quests().Status(d.ID)
		current, required, err := sess.Quests().Progress(d.ID, sess.Store())
		if err != nil {
			continue
		}
		fmt.Printf("  %s [%s] %d/%d - %s\n", d.Name, status, current, required, d.Description)
	}
}
