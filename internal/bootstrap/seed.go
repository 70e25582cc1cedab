package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/rz1986/gameportal/internal/dependencies/clock"
	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage"
)

// Fixed bootstrap admin account
const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
	AdminPhone    = "13800000000"
)

type seedGame struct {
	title        string
	slug         string
	description  string
	instructions string
	playMarkup   string
}

var seedGames = []seedGame{
	{
		title:        "Snake Classic",
		slug:         "snake-classic",
		description:  "Steer the snake to the food and grow as long as you can without biting yourself.",
		instructions: "Use the arrow keys to move. Press space to restart after a crash.",
		playMarkup: `<div class="game-panel">
  <h2>Snake Classic</h2>
  <canvas id="snake-canvas" width="300" height="300"></canvas>
  <p id="snake-status">Press any arrow key to start.</p>
  <script>
  (function () {
    var canvas = document.getElementById('snake-canvas');
    var ctx = canvas.getContext('2d');
    var status = document.getElementById('snake-status');
    var cell = 15, cols = 20, rows = 20;
    var snake, dir, food, timer, score;

    function placeFood() {
      do {
        food = {x: Math.floor(Math.random() * cols), y: Math.floor(Math.random() * rows)};
      } while (snake.some(function (s) { return s.x === food.x && s.y === food.y; }));
    }

    function draw() {
      ctx.fillStyle = '#111';
      ctx.fillRect(0, 0, canvas.width, canvas.height);
      ctx.fillStyle = '#e05545';
      ctx.fillRect(food.x * cell, food.y * cell, cell - 1, cell - 1);
      ctx.fillStyle = '#66cc66';
      snake.forEach(function (s) { ctx.fillRect(s.x * cell, s.y * cell, cell - 1, cell - 1); });
    }

    function reset() {
      snake = [{x: 10, y: 10}];
      dir = null;
      score = 0;
      placeFood();
      draw();
      status.textContent = 'Press any arrow key to start.';
    }

    function step() {
      var head = {x: snake[0].x + dir.x, y: snake[0].y + dir.y};
      if (head.x < 0 || head.y < 0 || head.x >= cols || head.y >= rows ||
          snake.some(function (s) { return s.x === head.x && s.y === head.y; })) {
        clearInterval(timer);
        timer = null;
        status.textContent = 'Game over! Score ' + score + '. Press space to restart.';
        return;
      }
      snake.unshift(head);
      if (head.x === food.x && head.y === food.y) {
        score++;
        status.textContent = 'Score: ' + score;
        placeFood();
      } else {
        snake.pop();
      }
      draw();
    }

    var keys = {ArrowUp: {x: 0, y: -1}, ArrowDown: {x: 0, y: 1},
                ArrowLeft: {x: -1, y: 0}, ArrowRight: {x: 1, y: 0}};
    document.addEventListener('keydown', function (e) {
      if (e.key === ' ' && !timer) { e.preventDefault(); reset(); return; }
      var d = keys[e.key];
      if (!d) return;
      e.preventDefault();
      if (dir && d.x === -dir.x && d.y === -dir.y) return;
      dir = d;
      if (!timer) {
        timer = setInterval(step, 150);
        status.textContent = 'Score: ' + score;
      }
    });

    reset();
  })();
  </script>
</div>`,
	},
	{
		title:        "Memory Match",
		slug:         "memory-match",
		description:  "Flip cards two at a time and clear the board by finding every matching pair.",
		instructions: "Click a card to flip it. Match all pairs in as few moves as possible.",
		playMarkup: `<div class="game-panel">
  <h2>Memory Match</h2>
  <div id="memory-board" data-pairs="8"></div>
  <p id="memory-status">Click any card to begin.</p>
  <script>
  (function () {
    var board = document.getElementById('memory-board');
    var status = document.getElementById('memory-status');
    var faces = ['A', 'B', 'C', 'D', 'E', 'F', 'G', 'H'];
    var cards = faces.concat(faces);
    var open = [], moves = 0, matched = 0;

    cards.sort(function () { return Math.random() - 0.5; });
    cards.forEach(function (face) {
      var card = document.createElement('button');
      card.className = 'memory-card';
      card.textContent = '?';
      card.addEventListener('click', function () {
        if (open.length === 2 || card.disabled || card.textContent === face) return;
        card.textContent = face;
        open.push(card);
        if (open.length < 2) return;
        moves++;
        var a = open[0], b = open[1];
        if (a.textContent === b.textContent) {
          a.disabled = true;
          b.disabled = true;
          matched++;
          open = [];
          status.textContent = matched === faces.length
            ? 'Cleared in ' + moves + ' moves!'
            : 'Moves: ' + moves;
        } else {
          status.textContent = 'Moves: ' + moves;
          setTimeout(function () {
            a.textContent = '?';
            b.textContent = '?';
            open = [];
          }, 700);
        }
      });
      board.appendChild(card);
    });
  })();
  </script>
</div>`,
	},
	{
		title:        "Block Drop",
		slug:         "block-drop",
		description:  "Rotate and stack falling blocks to complete lines before the well fills up.",
		instructions: "Arrow keys move and rotate, down drops faster. Complete lines to score.",
		playMarkup: `<div class="game-panel">
  <h2>Block Drop</h2>
  <canvas id="blocks-canvas" width="240" height="400"></canvas>
  <p id="blocks-status">Press up to rotate, left/right to move.</p>
  <script>
  (function () {
    var canvas = document.getElementById('blocks-canvas');
    var ctx = canvas.getContext('2d');
    var status = document.getElementById('blocks-status');
    var cell = 20, cols = 12, rows = 20;
    var shapes = [
      [[0, 0], [1, 0], [0, 1], [1, 1]],
      [[0, 0], [1, 0], [2, 0], [3, 0]],
      [[0, 0], [1, 0], [2, 0], [2, 1]],
      [[0, 0], [1, 0], [2, 0], [0, 1]],
      [[0, 0], [1, 0], [1, 1], [2, 1]],
      [[1, 0], [2, 0], [0, 1], [1, 1]],
      [[0, 0], [1, 0], [2, 0], [1, 1]]
    ];
    var well, piece, lines, over, timer;

    function collides(px, py, blocks) {
      return blocks.some(function (b) {
        var x = px + b[0], y = py + b[1];
        return x < 0 || x >= cols || y >= rows || (y >= 0 && well[y][x]);
      });
    }

    function spawn() {
      var shape = shapes[Math.floor(Math.random() * shapes.length)];
      piece = {x: 4, y: 0, blocks: shape.map(function (b) { return b.slice(); })};
      if (collides(piece.x, piece.y, piece.blocks)) {
        over = true;
        clearInterval(timer);
        status.textContent = 'Game over! ' + lines + ' lines. Press space to restart.';
      }
    }

    function lock() {
      piece.blocks.forEach(function (b) {
        var y = piece.y + b[1];
        if (y >= 0) well[y][piece.x + b[0]] = 1;
      });
      for (var y = rows - 1; y >= 0; y--) {
        if (well[y].every(function (v) { return v; })) {
          well.splice(y, 1);
          well.unshift(new Array(cols).fill(0));
          lines++;
          y++;
        }
      }
      status.textContent = 'Lines: ' + lines;
      spawn();
    }

    function draw() {
      ctx.fillStyle = '#111';
      ctx.fillRect(0, 0, canvas.width, canvas.height);
      ctx.fillStyle = '#4499cc';
      for (var y = 0; y < rows; y++) {
        for (var x = 0; x < cols; x++) {
          if (well[y][x]) ctx.fillRect(x * cell, y * cell, cell - 1, cell - 1);
        }
      }
      if (!over) {
        ctx.fillStyle = '#ffaa00';
        piece.blocks.forEach(function (b) {
          ctx.fillRect((piece.x + b[0]) * cell, (piece.y + b[1]) * cell, cell - 1, cell - 1);
        });
      }
    }

    function tick() {
      if (collides(piece.x, piece.y + 1, piece.blocks)) lock();
      else piece.y++;
      draw();
    }

    function rotate(blocks) {
      return blocks.map(function (b) { return [-b[1], b[0]]; });
    }

    function reset() {
      well = [];
      for (var y = 0; y < rows; y++) well.push(new Array(cols).fill(0));
      lines = 0;
      over = false;
      if (timer) clearInterval(timer);
      spawn();
      timer = setInterval(tick, 400);
      status.textContent = 'Lines: 0';
      draw();
    }

    document.addEventListener('keydown', function (e) {
      if (e.key === ' ') {
        e.preventDefault();
        if (over) reset();
        return;
      }
      if (over) return;
      if (e.key === 'ArrowLeft' && !collides(piece.x - 1, piece.y, piece.blocks)) {
        piece.x--;
      } else if (e.key === 'ArrowRight' && !collides(piece.x + 1, piece.y, piece.blocks)) {
        piece.x++;
      } else if (e.key === 'ArrowDown') {
        tick();
      } else if (e.key === 'ArrowUp') {
        var turned = rotate(piece.blocks);
        if (!collides(piece.x, piece.y, turned)) piece.blocks = turned;
      } else {
        return;
      }
      e.preventDefault();
      draw();
    });

    reset();
  })();
  </script>
</div>`,
	},
}

// Seed creates the fixed admin account and the example games. Idempotent:
// existing rows (matched by username/slug) are left untouched.
func Seed(ctx context.Context, store storage.Storage, clk clock.Clock, logger *slog.Logger) error {
	admin, err := store.GetUserByUsername(ctx, AdminUsername)
	if errors.Is(err, model.ErrUserNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return fmt.Errorf("failed to hash admin password: %w", hashErr)
		}
		admin = &model.User{
			Username:     AdminUsername,
			Phone:        AdminPhone,
			PasswordHash: string(hash),
			IsAdmin:      true,
			CreatedAt:    clk.Now(),
		}
		admin.ID, err = store.CreateUser(ctx, admin)
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		logger.Info("seeded admin account", slog.String("username", AdminUsername))
	} else if err != nil {
		return err
	}

	for _, sg := range seedGames {
		if _, err := store.GetGameBySlug(ctx, sg.slug); err == nil {
			continue
		} else if !errors.Is(err, model.ErrGameNotFound) {
			return err
		}

		game := &model.Game{
			Title:        sg.title,
			Slug:         sg.slug,
			Description:  sg.description,
			Instructions: sg.instructions,
			PlayMarkup:   sg.playMarkup,
			UploaderID:   admin.ID,
			CreatedAt:    clk.Now(),
		}
		if _, err := store.CreateGame(ctx, game); err != nil {
			return fmt.Errorf("failed to seed game %q: %w", sg.slug, err)
		}
		logger.Info("seeded game", slog.String("slug", sg.slug))
	}

	return nil
}
